package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/designer"
	"github.com/hostel-manager/room-designer/internal/metrics"
	"github.com/hostel-manager/room-designer/internal/models"
)

// sessionFunc runs one operation against a locked session. Returned
// elements are included in the response next to the session state.
type sessionFunc func(s *designer.Session) ([]models.Element, error)

// OpenSession handles opening a designer session over a room.
// @Summary Open designer session
// @Description Open a session seeded from the saved room data. With resume=true the latest unsaved draft is restored instead.
// @Tags sessions
// @Accept json
// @Produce json
// @Param roomId path string true "Room ID"
// @Param resume query bool false "Restore the latest draft"
// @Param session body models.OpenSessionRequest false "Room data overrides"
// @Success 201 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/rooms/{roomId}/sessions [post]
func (h *Handler) OpenSession(c *gin.Context) {
	roomID := c.Param("roomId")

	var req models.OpenSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("Invalid open session request", zap.Error(err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
			})
			return
		}
	}

	if d := req.Dimensions; d != nil && (d.Length <= 0 || d.Width <= 0) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "room dimensions must be positive",
		})
		return
	}
	if req.Theme != nil {
		if err := req.Theme.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
			})
			return
		}
	}

	ctx := c.Request.Context()
	saved, err := h.loadLayout(ctx, roomID)
	if err != nil {
		h.logger.Error("Failed to load room data", zap.String("room_id", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to load room data",
		})
		return
	}

	var data models.RoomData
	if saved != nil {
		data = saved.Layout.RoomData(saved.BedCount)
	}
	if c.Query("resume") == "true" {
		if draft, err := h.cache.GetDraft(ctx, roomID); err == nil && draft != nil {
			h.logger.Info("Resuming draft", zap.String("room_id", roomID))
			data = draft.RoomData(data.BedCount)
		}
	}
	if req.Dimensions != nil {
		dims := *req.Dimensions
		data.Dimensions = &dims
	}
	if req.Theme != nil {
		theme := *req.Theme
		data.Theme = &theme
	}
	if req.BedCount != nil {
		data.BedCount = *req.BedCount
	}

	entry := newSessionEntry(roomID)
	logger := h.logger.With(zap.String("session_id", entry.id), zap.String("room_id", roomID))
	entry.session = designer.NewSession(data,
		designer.WithLogger(logger),
		designer.WithNotifier(entry),
		designer.WithBackup(&draftBackup{cache: h.cache, roomID: roomID, logger: logger}),
		designer.WithSaver(&roomSaver{
			repo:     h.repo,
			cache:    h.cache,
			metrics:  h.metrics,
			roomID:   roomID,
			bedCount: req.BedCount,
		}),
		designer.WithGrid(h.cfg.GridSize, h.cfg.SnapToGrid),
		designer.WithHistoryLimit(h.cfg.HistoryLimit),
	)
	h.sessions.Add(entry)

	logger.Info("Opened designer session")

	entry.mu.Lock()
	state := entry.state()
	entry.mu.Unlock()

	c.JSON(http.StatusCreated, models.SessionResponse{Data: state})
}

// GetSession handles retrieving the state of a session.
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId} [get]
func (h *Handler) GetSession(c *gin.Context) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}

	entry.mu.Lock()
	state := entry.state()
	entry.mu.Unlock()

	c.JSON(http.StatusOK, models.SessionResponse{Data: state})
}

// CloseSession handles discarding a session without saving.
// @Summary Close session
// @Tags sessions
// @Param sessionId path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId} [delete]
func (h *Handler) CloseSession(c *gin.Context) {
	id := c.Param("sessionId")
	if !h.sessions.Remove(id) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "session not found",
		})
		return
	}

	h.logger.Info("Closed designer session", zap.String("session_id", id))
	c.Status(http.StatusNoContent)
}

// Setup handles the setup wizard. Dimensions are in feet.
// @Summary Set up room
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param setup body models.SetupRequest true "Room dimensions in feet and theme"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/setup [post]
func (h *Handler) Setup(c *gin.Context) {
	var req models.SetupRequest
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "setup", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		return nil, s.Setup(designer.SetupInput{
			LengthFt:  req.Length,
			WidthFt:   req.Width,
			HeightFt:  req.Height,
			ThemeName: req.ThemeName,
			Theme:     req.Theme,
		})
	})
}

// SetTheme handles replacing the room theme.
// @Summary Set theme
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param theme body models.ThemeRequest true "Preset name or custom theme"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/theme [put]
func (h *Handler) SetTheme(c *gin.Context) {
	var req models.ThemeRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Theme == nil && req.ThemeName == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "either themeName or theme is required",
		})
		return
	}

	h.sessionOp(c, "theme", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		if req.Theme != nil {
			return nil, s.SetTheme(*req.Theme)
		}
		preset, err := models.ThemePreset(req.ThemeName)
		if err != nil {
			return nil, err
		}
		return nil, s.SetTheme(preset)
	})
}

// SetGrid handles changing the snapping settings.
// @Summary Set grid
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param grid body models.GridRequest true "Grid settings"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/grid [post]
func (h *Handler) SetGrid(c *gin.Context) {
	var req models.GridRequest
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "grid", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		if req.GridSize != nil {
			if err := s.SetGridSize(*req.GridSize); err != nil {
				return nil, err
			}
		}
		if req.SnapToGrid != nil {
			s.SetSnapToGrid(*req.SnapToGrid)
		}
		return nil, nil
	})
}

// AddElement handles adding an element from the catalogue.
// @Summary Add element
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param element body models.AddElementRequest true "Element type"
// @Success 201 {object} models.ElementsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/elements [post]
func (h *Handler) AddElement(c *gin.Context) {
	var req models.AddElementRequest
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "add", http.StatusCreated, func(s *designer.Session) ([]models.Element, error) {
		e, err := s.AddElement(req.Type)
		if err != nil {
			return nil, err
		}
		return []models.Element{e}, nil
	})
}

// UpdateElement handles a partial update of an element.
// @Summary Update element
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param elementId path string true "Element ID"
// @Param update body models.ElementUpdate true "Fields to change"
// @Success 200 {object} models.ElementsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/elements/{elementId} [patch]
func (h *Handler) UpdateElement(c *gin.Context) {
	id := c.Param("elementId")

	var req models.ElementUpdate
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "update", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		e, err := s.UpdateElement(id, req)
		if err != nil {
			return nil, err
		}
		return []models.Element{e}, nil
	})
}

// DeleteElement handles removing an element.
// @Summary Delete element
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param elementId path string true "Element ID"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/elements/{elementId} [delete]
func (h *Handler) DeleteElement(c *gin.Context) {
	id := c.Param("elementId")

	h.sessionOp(c, "delete", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		return nil, s.DeleteElement(id)
	})
}

// RotateElement handles turning an element by 90 degrees.
// @Summary Rotate element
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param elementId path string true "Element ID"
// @Success 200 {object} models.ElementsResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/elements/{elementId}/rotate [post]
func (h *Handler) RotateElement(c *gin.Context) {
	id := c.Param("elementId")

	h.sessionOp(c, "rotate", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		e, err := s.RotateElement(id)
		if err != nil {
			return nil, err
		}
		return []models.Element{e}, nil
	})
}

// Duplicate handles duplicating elements.
// @Summary Duplicate elements
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param ids body models.ElementIDsRequest true "Elements to duplicate"
// @Success 201 {object} models.ElementsResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/duplicate [post]
func (h *Handler) Duplicate(c *gin.Context) {
	var req models.ElementIDsRequest
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "duplicate", http.StatusCreated, func(s *designer.Session) ([]models.Element, error) {
		return s.DuplicateElements(req.IDs)
	})
}

// Move handles moving elements by a delta as one action.
// @Summary Move elements
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param move body models.MoveRequest true "Elements and delta in meters"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/move [post]
func (h *Handler) Move(c *gin.Context) {
	var req models.MoveRequest
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "move", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		return nil, s.MoveElements(req.IDs, req.DX, req.DY)
	})
}

// Drag handles the phases of a live drag. Deltas are measured from the
// positions at drag start.
// @Summary Drag elements
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param drag body models.DragRequest true "Drag phase and delta"
// @Success 200 {object} models.SessionResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/drag [post]
func (h *Handler) Drag(c *gin.Context) {
	var req models.DragRequest
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "drag_"+req.Phase, http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		switch req.Phase {
		case models.DragStart:
			return nil, s.BeginDrag(req.IDs)
		case models.DragMove:
			return nil, s.DragBy(req.DX, req.DY)
		default:
			_, err := s.EndDrag()
			return nil, err
		}
	})
}

// Select handles a click on an element or on empty space.
// @Summary Select element
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param click body models.SelectRequest true "Clicked element"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/select [post]
func (h *Handler) Select(c *gin.Context) {
	var req models.SelectRequest
	if !h.bind(c, &req) {
		return
	}

	h.sessionOp(c, "select", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		return nil, s.Select(req.ID, req.Multi)
	})
}

// Undo handles stepping back one history entry.
// @Summary Undo
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/undo [post]
func (h *Handler) Undo(c *gin.Context) {
	h.sessionOp(c, "undo", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		return nil, s.Undo()
	})
}

// Redo handles stepping forward one history entry.
// @Summary Redo
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/redo [post]
func (h *Handler) Redo(c *gin.Context) {
	h.sessionOp(c, "redo", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		return nil, s.Redo()
	})
}

// Clear handles removing every element.
// @Summary Clear room
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Router /api/v1/sessions/{sessionId}/clear [post]
func (h *Handler) Clear(c *gin.Context) {
	h.sessionOp(c, "clear", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		return nil, s.ClearRoom()
	})
}

// Save handles storing the session layout as the room's saved layout.
// @Summary Save layout
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/save [post]
func (h *Handler) Save(c *gin.Context) {
	ctx := c.Request.Context()

	h.sessionOp(c, "save", http.StatusOK, func(s *designer.Session) ([]models.Element, error) {
		_, err := s.SaveLayout(ctx)
		return nil, err
	})
}

// RenderSession handles drawing the current session layout as SVG. Selected
// elements are highlighted.
// @Summary Render session
// @Tags sessions
// @Produce image/svg+xml
// @Param sessionId path string true "Session ID"
// @Param scale query number false "Pixels per meter"
// @Param grid query bool false "Draw the snapping grid"
// @Success 200 {string} string "SVG document"
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/sessions/{sessionId}/render.svg [get]
func (h *Handler) RenderSession(c *gin.Context) {
	opts, ok := h.renderOptions(c)
	if !ok {
		return
	}
	entry, ok := h.lookup(c)
	if !ok {
		return
	}

	entry.mu.Lock()
	layout := entry.session.Layout()
	opts.Selected = entry.session.Selection().IDs
	opts.GridSize = entry.session.Grid().Size
	entry.mu.Unlock()

	h.writeSVG(c, layout, opts)
}

// bind decodes the JSON body into req. It writes a 400 response and returns
// false when the body is invalid.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid session request", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// lookup finds the session named in the path. It writes a 404 response and
// returns false when there is none.
func (h *Handler) lookup(c *gin.Context) (*sessionEntry, bool) {
	entry, ok := h.sessions.Get(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "session not found",
		})
		return nil, false
	}
	return entry, true
}

// sessionOp runs fn under the session lock, records the operation and writes
// either the resulting state or the mapped error.
func (h *Handler) sessionOp(c *gin.Context, op string, status int, fn sessionFunc) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	start := time.Now()
	elements, err := fn(entry.session)
	if err != nil {
		code, kind := sessionErrorStatus(err)
		outcome := metrics.OutcomeRejected
		message := err.Error()
		if code == http.StatusInternalServerError {
			outcome = metrics.OutcomeError
			message = "failed to " + op
			h.logger.Error("Session operation failed",
				zap.String("session_id", entry.id),
				zap.String("op", op),
				zap.Error(err),
			)
		}
		h.metrics.ObserveOperation(op, outcome, time.Since(start).Seconds())

		c.JSON(code, models.ErrorResponse{Error: kind, Message: message, Notices: entry.drainNotices()})
		return
	}
	h.metrics.ObserveOperation(op, metrics.OutcomeSuccess, time.Since(start).Seconds())

	state := entry.state()
	if elements != nil {
		c.JSON(status, models.ElementsResponse{Data: elements, Session: state})
		return
	}
	c.JSON(status, models.SessionResponse{Data: state})
}

// sessionErrorStatus maps a designer error to an HTTP status and error kind.
func sessionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, designer.ErrCapacityExceeded):
		return http.StatusConflict, "capacity_exceeded"
	case errors.Is(err, designer.ErrSetupRequired):
		return http.StatusConflict, "setup_required"
	case errors.Is(err, designer.ErrDragInProgress), errors.Is(err, designer.ErrNoDrag):
		return http.StatusConflict, "drag_conflict"
	case errors.Is(err, designer.ErrNothingToUndo), errors.Is(err, designer.ErrNothingToRedo):
		return http.StatusConflict, "history_empty"
	case errors.Is(err, designer.ErrElementNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, designer.ErrInvalidDimensions),
		errors.Is(err, designer.ErrInvalidUpdate),
		errors.Is(err, designer.ErrUnknownElementType),
		errors.Is(err, models.ErrInvalidColor),
		errors.Is(err, models.ErrUnknownTheme):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
