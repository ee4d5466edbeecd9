package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/services"
)

type SettingsHandler struct {
	svc           *services.SettingsService
	publicBaseURL string
	logger        *slog.Logger
}

func NewSettingsHandler(svc *services.SettingsService, publicBaseURL string, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		svc:           svc,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

type tokenResponse struct {
	Token    string `json:"token"`
	ImageURL string `json:"image_url"`
	DataURL  string `json:"data_url"`
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/wallpaper")
	{
		settings.GET("/settings", h.Get)
		settings.PUT("/settings", h.Update)
		settings.POST("/token", h.RotateToken)
	}
}

// Get godoc
// @Summary   Wallpaper settings
// @Tags      settings
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  domain.WallpaperSettings
// @Router    /api/v1/wallpaper/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	settings, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("get settings failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update godoc
// @Summary   Update wallpaper settings
// @Description  Partial update; omitted fields keep their value. Open live previews re-render.
// @Tags      settings
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     settings  body  services.UpdateSettingsInput  true  "Changed fields"
// @Success   200  {object}  domain.WallpaperSettings
// @Failure   400  {object}  map[string]string
// @Router    /api/v1/wallpaper/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req services.UpdateSettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), userID, req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("update settings failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// RotateToken godoc
// @Summary   Issue a new public wallpaper token
// @Description  The previous token stops working immediately. The token is shown only once.
// @Tags      settings
// @Security  BearerAuth
// @Produce   json
// @Success   201  {object}  tokenResponse
// @Router    /api/v1/wallpaper/token [post]
func (h *SettingsHandler) RotateToken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	token, err := h.svc.RotateToken(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("rotate token failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	base := h.publicBaseURL + "/wallpaper/" + token
	noStore(c)
	c.JSON(http.StatusCreated, tokenResponse{
		Token:    token,
		ImageURL: base + "/image.png",
		DataURL:  base + "/data",
	})
}
