package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var _ domain.SettingsRepository = (*SQLSettingsRepository)(nil)

const settingsColumns = `user_id, theme, width, height, date_of_birth, life_expectancy,
	year_grid_mode, wallpaper_type, show_life_grid, show_year_grid, show_age_stats,
	show_quote, show_habit_layer, quote, pinned_goal_title, show_pinned_goal, timezone`

type SQLSettingsRepository struct {
	db *sqlx.DB
}

func NewSQLSettingsRepository(db *sqlx.DB) *SQLSettingsRepository {
	return &SQLSettingsRepository{db: db}
}

func (r *SQLSettingsRepository) get(ctx context.Context, where string, arg any) (*domain.WallpaperSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := r.db.Rebind(`SELECT ` + settingsColumns + ` FROM wallpaper_settings WHERE ` + where + ` = ?`)

	var s domain.WallpaperSettings
	if err := r.db.GetContext(ctx, &s, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("repository: get settings failed: %w", err)
	}
	return &s, nil
}

func (r *SQLSettingsRepository) GetByTokenDigest(ctx context.Context, digest string) (*domain.WallpaperSettings, error) {
	if digest == "" {
		return nil, domain.ErrSettingsNotFound
	}
	return r.get(ctx, "token_digest", digest)
}

func (r *SQLSettingsRepository) GetByUserID(ctx context.Context, userID string) (*domain.WallpaperSettings, error) {
	return r.get(ctx, "user_id", userID)
}

func (r *SQLSettingsRepository) Save(ctx context.Context, s *domain.WallpaperSettings) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO wallpaper_settings (` + settingsColumns + `, updated_at)
		VALUES (:user_id, :theme, :width, :height, :date_of_birth, :life_expectancy,
			:year_grid_mode, :wallpaper_type, :show_life_grid, :show_year_grid, :show_age_stats,
			:show_quote, :show_habit_layer, :quote, :pinned_goal_title, :show_pinned_goal, :timezone,
			CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = excluded.theme,
			width = excluded.width,
			height = excluded.height,
			date_of_birth = excluded.date_of_birth,
			life_expectancy = excluded.life_expectancy,
			year_grid_mode = excluded.year_grid_mode,
			wallpaper_type = excluded.wallpaper_type,
			show_life_grid = excluded.show_life_grid,
			show_year_grid = excluded.show_year_grid,
			show_age_stats = excluded.show_age_stats,
			show_quote = excluded.show_quote,
			show_habit_layer = excluded.show_habit_layer,
			quote = excluded.quote,
			pinned_goal_title = excluded.pinned_goal_title,
			show_pinned_goal = excluded.show_pinned_goal,
			timezone = excluded.timezone,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("repository: save settings failed: %w", err)
	}
	return nil
}

func (r *SQLSettingsRepository) SetTokenDigest(ctx context.Context, userID, digest string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := r.db.Rebind(`UPDATE wallpaper_settings SET token_digest = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`)

	res, err := r.db.ExecContext(ctx, query, digest, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTokenConflict
		}
		return fmt.Errorf("repository: set token digest failed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: set token digest failed: %w", err)
	}
	if n == 0 {
		return domain.ErrSettingsNotFound
	}
	return nil
}
