package live

import (
	"context"
	"image"
	"log/slog"
	"net/http"
	"sync"

	ws "github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/services"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/workers"
)

// Previewer renders drafts and loads the stored settings they start from.
type Previewer interface {
	workers.PreviewRenderer
	SettingsForUser(ctx context.Context, userID string) (*domain.WallpaperSettings, error)
}

type Encoder interface {
	EncodePNG(img image.Image) ([]byte, error)
}

type Config struct {
	Preview workers.PreviewConfig
	// Scale shrinks frames before they are sent; 1 keeps full resolution.
	Scale          float64
	OriginPatterns []string
}

// Hub tracks the live preview connections of every user.
type Hub struct {
	previewer Previewer
	encoder   Encoder
	cfg       Config
	logger    *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

var _ services.SettingsListener = (*Hub)(nil)

func NewHub(previewer Previewer, encoder Encoder, cfg Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		previewer: previewer,
		encoder:   encoder,
		cfg:       cfg,
		logger:    logger,
		clients:   make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

// Unregister removes a client. Its send channel is left open: late frames
// are simply never written.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// SettingsSaved tells every open preview of userID to reload the stored
// settings. It never blocks.
func (h *Hub) SettingsSaved(userID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.saved <- struct{}{}:
		default:
		}
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/preview/live", h.Handle)
}

// Handle godoc
// @Summary      Live preview channel
// @Description  Websocket. Send {"type":"draft","settings":{...}} and {"type":"visible","visible":bool}; receive frame and settings_saved messages.
// @Tags         preview
// @Security     BearerAuth
// @Router       /api/v1/preview/live [get]
func (h *Hub) Handle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	conn, err := ws.Accept(c.Writer, c.Request, &ws.AcceptOptions{
		OriginPatterns: h.cfg.OriginPatterns,
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "user_id", userID, "error", err)
		return
	}

	client := NewClient(h, conn, userID)
	client.Run(c.Request.Context())
}
