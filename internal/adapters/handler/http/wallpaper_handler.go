package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/services"
)

type WallpaperHandler struct {
	svc    *services.WallpaperService
	logger *slog.Logger
}

func NewWallpaperHandler(svc *services.WallpaperService, logger *slog.Logger) *WallpaperHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WallpaperHandler{svc: svc, logger: logger}
}

// RegisterPublicRoutes mounts the token-addressed endpoints. The token is the
// only credential.
func (h *WallpaperHandler) RegisterPublicRoutes(router gin.IRouter) {
	wp := router.Group("/wallpaper/:token")
	{
		wp.GET("/image.png", h.Image)
		wp.GET("/data", h.Data)
		wp.GET("/ops", h.Ops)
	}
}

func (h *WallpaperHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/wallpaper/bundle", h.Bundle)
	router.POST("/preview", h.Preview)
}

// Image godoc
// @Summary      Public wallpaper image
// @Description  Renders the current wallpaper of a token. Never cached.
// @Tags         wallpaper
// @Produce      png
// @Param        token  path  string  true  "Wallpaper token"
// @Success      200
// @Failure      404
// @Router       /wallpaper/{token}/image.png [get]
func (h *WallpaperHandler) Image(c *gin.Context) {
	noStore(c)

	png, err := h.svc.RenderSnapshot(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.logger.Error("snapshot render failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// Data godoc
// @Summary      Wallpaper data bundle
// @Description  Settings, habits with logs, goals, reminders and derived stats for client-side rendering.
// @Tags         wallpaper
// @Produce      json
// @Param        token  path  string  true  "Wallpaper token"
// @Success      200  {object}  domain.WallpaperBundle
// @Failure      404  {object}  map[string]string
// @Router       /wallpaper/{token}/data [get]
func (h *WallpaperHandler) Data(c *gin.Context) {
	noStore(c)

	bundle, err := h.svc.BundleByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// Ops godoc
// @Summary      Wallpaper draw operations
// @Description  The ordered draw calls of the public wallpaper, in canvas pixels.
// @Tags         wallpaper
// @Produce      json
// @Param        token  path  string  true  "Wallpaper token"
// @Success      200  {object}  wallpaper.Ops
// @Failure      404  {object}  map[string]string
// @Router       /wallpaper/{token}/ops [get]
func (h *WallpaperHandler) Ops(c *gin.Context) {
	noStore(c)

	ops, err := h.svc.DrawOps(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ops)
}

// Bundle godoc
// @Summary      Own data bundle
// @Tags         wallpaper
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  domain.WallpaperBundle
// @Router       /api/v1/wallpaper/bundle [get]
func (h *WallpaperHandler) Bundle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	bundle, err := h.svc.BundleForUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// Preview godoc
// @Summary      Render a settings draft
// @Description  Renders unsaved settings exactly as the public image will look once saved. Drafts a save would reject are a 400.
// @Tags         preview
// @Security     BearerAuth
// @Accept       json
// @Produce      png
// @Param        draft  body  domain.WallpaperSettings  true  "Settings draft"
// @Param        clock  query  bool  false  "Draw the clock overlay"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/preview [post]
func (h *WallpaperHandler) Preview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var draft domain.WallpaperSettings
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withClock := c.Query("clock") == "1" || c.Query("clock") == "true"
	png, err := h.svc.PreviewPNG(c.Request.Context(), userID, draft, withClock)
	if err != nil {
		h.fail(c, err)
		return
	}

	noStore(c)
	c.Data(http.StatusOK, "image/png", png)
}

func (h *WallpaperHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSettingsNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "wallpaper not found"})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("wallpaper request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
