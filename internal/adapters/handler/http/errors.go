package http

import (
	"errors"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
)

var validationErrors = []error{
	domain.ErrInvalidDate,
	domain.ErrInvalidLifeExpectancy,
	domain.ErrInvalidCanvasSize,
	domain.ErrInvalidGridMode,
	domain.ErrInvalidWallpaperType,
	domain.ErrDateOfBirthInFuture,
	domain.ErrQuoteTooLong,
	domain.ErrInvalidTimezone,
	domain.ErrPinnedGoalTitleTooLong,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// noStore marks a response as never cacheable, so every fetch of a public
// wallpaper reflects current data.
func noStore(h interface{ Header(string, string) }) {
	h.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	h.Header("Pragma", "no-cache")
	h.Header("Expires", "0")
}
