// Package handler provides the HTTP handlers for saved room layouts and
// designer sessions.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/cache"
	"github.com/hostel-manager/room-designer/internal/config"
	"github.com/hostel-manager/room-designer/internal/database"
	"github.com/hostel-manager/room-designer/internal/metrics"
	"github.com/hostel-manager/room-designer/internal/models"
	"github.com/hostel-manager/room-designer/internal/render"
)

// Handler provides HTTP handlers for room layouts and designer sessions.
type Handler struct {
	repo     database.Repository
	cache    cache.Cache
	cfg      *config.Config
	sessions *Registry
	renderer *render.Renderer
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new room designer handler.
func NewHandler(repo database.Repository, cache cache.Cache, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		repo:     repo,
		cache:    cache,
		cfg:      cfg,
		sessions: NewRegistry(cfg.SessionIdleTimeout, m, logger),
		renderer: render.NewRenderer(),
		metrics:  m,
		logger:   logger,
	}
}

// Sessions returns the registry of open designer sessions.
func (h *Handler) Sessions() *Registry {
	return h.sessions
}

// RegisterRoutes registers the handler routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms", h.ListLayouts)
	rg.GET("/rooms/:roomId/layout", h.GetLayout)
	rg.PUT("/rooms/:roomId/layout", h.PutLayout)
	rg.DELETE("/rooms/:roomId/layout", h.DeleteLayout)
	rg.GET("/rooms/:roomId/render.svg", h.RenderLayout)
	rg.POST("/rooms/:roomId/sessions", h.OpenSession)

	rg.GET("/sessions/:sessionId", h.GetSession)
	rg.DELETE("/sessions/:sessionId", h.CloseSession)
	rg.POST("/sessions/:sessionId/setup", h.Setup)
	rg.PUT("/sessions/:sessionId/theme", h.SetTheme)
	rg.POST("/sessions/:sessionId/grid", h.SetGrid)
	rg.POST("/sessions/:sessionId/elements", h.AddElement)
	rg.PATCH("/sessions/:sessionId/elements/:elementId", h.UpdateElement)
	rg.DELETE("/sessions/:sessionId/elements/:elementId", h.DeleteElement)
	rg.POST("/sessions/:sessionId/elements/:elementId/rotate", h.RotateElement)
	rg.POST("/sessions/:sessionId/duplicate", h.Duplicate)
	rg.POST("/sessions/:sessionId/move", h.Move)
	rg.POST("/sessions/:sessionId/drag", h.Drag)
	rg.POST("/sessions/:sessionId/select", h.Select)
	rg.POST("/sessions/:sessionId/undo", h.Undo)
	rg.POST("/sessions/:sessionId/redo", h.Redo)
	rg.POST("/sessions/:sessionId/clear", h.Clear)
	rg.POST("/sessions/:sessionId/save", h.Save)
	rg.GET("/sessions/:sessionId/render.svg", h.RenderSession)
}

// ListLayouts handles listing every saved room.
// @Summary List saved rooms
// @Tags rooms
// @Produce json
// @Success 200 {array} models.RoomSummary
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/rooms [get]
func (h *Handler) ListLayouts(c *gin.Context) {
	rooms, err := h.repo.ListLayouts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list layouts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to list layouts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rooms})
}

// GetLayout handles retrieving the saved layout of a room.
// @Summary Get saved layout
// @Tags rooms
// @Produce json
// @Param roomId path string true "Room ID"
// @Success 200 {object} models.LayoutResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/rooms/{roomId}/layout [get]
func (h *Handler) GetLayout(c *gin.Context) {
	roomID := c.Param("roomId")

	saved, err := h.loadLayout(c.Request.Context(), roomID)
	if err != nil {
		h.logger.Error("Failed to get layout", zap.String("room_id", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to retrieve layout",
		})
		return
	}

	if saved == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "layout not found",
		})
		return
	}

	c.JSON(http.StatusOK, models.LayoutResponse{Data: *saved})
}

// PutLayout handles storing a layout document directly.
// @Summary Store layout
// @Tags rooms
// @Accept json
// @Produce json
// @Param roomId path string true "Room ID"
// @Param layout body models.SaveLayoutRequest true "Layout document"
// @Success 200 {object} models.LayoutResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/rooms/{roomId}/layout [put]
func (h *Handler) PutLayout(c *gin.Context) {
	roomID := c.Param("roomId")

	var req models.SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid layout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if req.Layout.Dimensions.Length <= 0 || req.Layout.Dimensions.Width <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "layout dimensions must be positive",
		})
		return
	}
	if err := req.Layout.Theme.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	saved, err := h.repo.SaveLayout(ctx, roomID, &req.Layout, req.BedCount)
	if err != nil {
		h.metrics.IncSaves(metrics.OutcomeError)
		h.logger.Error("Failed to save layout", zap.String("room_id", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to save layout",
		})
		return
	}
	h.metrics.IncSaves(metrics.OutcomeSuccess)

	_ = h.cache.SetLayout(ctx, saved)

	c.JSON(http.StatusOK, models.LayoutResponse{Data: *saved})
}

// DeleteLayout handles deleting the saved layout of a room.
// @Summary Delete layout
// @Tags rooms
// @Param roomId path string true "Room ID"
// @Success 204 "No Content"
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/rooms/{roomId}/layout [delete]
func (h *Handler) DeleteLayout(c *gin.Context) {
	roomID := c.Param("roomId")
	ctx := c.Request.Context()

	err := h.repo.DeleteLayout(ctx, roomID)
	if err != nil {
		if errors.Is(err, database.ErrLayoutNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "layout not found",
			})
			return
		}

		h.logger.Error("Failed to delete layout", zap.String("room_id", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to delete layout",
		})
		return
	}

	_ = h.cache.DeleteLayout(ctx, roomID)
	_ = h.cache.DeleteDraft(ctx, roomID)

	c.Status(http.StatusNoContent)
}

// RenderLayout handles drawing the saved layout of a room as SVG.
// @Summary Render saved layout
// @Tags rooms
// @Produce image/svg+xml
// @Param roomId path string true "Room ID"
// @Param scale query number false "Pixels per meter"
// @Param grid query bool false "Draw the snapping grid"
// @Success 200 {string} string "SVG document"
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/rooms/{roomId}/render.svg [get]
func (h *Handler) RenderLayout(c *gin.Context) {
	roomID := c.Param("roomId")

	opts, ok := h.renderOptions(c)
	if !ok {
		return
	}

	saved, err := h.loadLayout(c.Request.Context(), roomID)
	if err != nil {
		h.logger.Error("Failed to get layout", zap.String("room_id", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to retrieve layout",
		})
		return
	}
	if saved == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "layout not found",
		})
		return
	}

	h.writeSVG(c, saved.Layout, opts)
}

// loadLayout reads a saved layout through the cache. It returns nil when the
// room has no saved layout.
func (h *Handler) loadLayout(ctx context.Context, roomID string) (*models.SavedLayout, error) {
	saved, err := h.cache.GetLayout(ctx, roomID)
	if err == nil && saved != nil {
		h.metrics.IncCacheRequests(metrics.CacheHit)
		h.logger.Debug("Returning cached layout", zap.String("room_id", roomID))
		return saved, nil
	}
	h.metrics.IncCacheRequests(metrics.CacheMiss)

	saved, err = h.repo.GetLayout(ctx, roomID)
	if err != nil || saved == nil {
		return nil, err
	}

	_ = h.cache.SetLayout(ctx, saved)
	return saved, nil
}

// renderOptions parses the scale and grid query parameters. It writes a 400
// response and returns false when they are invalid.
func (h *Handler) renderOptions(c *gin.Context) (render.Options, bool) {
	opts := render.Options{Scale: render.DefaultScale, GridSize: h.cfg.GridSize}

	if raw := c.Query("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_request",
				Message: "scale must be a positive number",
			})
			return opts, false
		}
		opts.Scale = scale
	}
	if raw := c.Query("grid"); raw != "" {
		show, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_request",
				Message: "grid must be a boolean",
			})
			return opts, false
		}
		opts.ShowGrid = show
	}
	return opts, true
}

func (h *Handler) writeSVG(c *gin.Context, layout models.Layout, opts render.Options) {
	svg, err := h.renderer.Render(layout, opts)
	if err != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "setup_required",
			Message: err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}
