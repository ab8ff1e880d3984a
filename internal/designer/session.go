// Package designer implements the room layout designer: an element store
// guarded by the geometry rules, an undo/redo history, a selection model and
// the session that orchestrates them and produces the layout document.
//
// A Session has exactly one mutator and is not safe for concurrent use.
// Every operation either applies fully and commits one history entry, or is
// rejected with an error and leaves the session unchanged.
package designer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/geometry"
	"github.com/hostel-manager/room-designer/internal/models"
)

// Setup wizard limits, in feet.
const (
	feetToMeters     = 0.3048
	minSetupLengthFt = 6.0
	minSetupWidthFt  = 6.0
	minSetupHeightFt = 7.0
)

// SetupInput is the setup wizard input. Dimensions are in feet. Theme takes
// precedence over ThemeName; with neither the current theme is kept.
type SetupInput struct {
	LengthFt  float64
	WidthFt   float64
	HeightFt  float64
	ThemeName string
	Theme     *models.Theme
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithNotifier sets the sink for user-facing notices.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithBackup sets the hook that receives the layout after each change.
func WithBackup(b Backup) Option {
	return func(s *Session) { s.backup = b }
}

// WithSaver sets the save-room collaborator.
func WithSaver(saver Saver) Option {
	return func(s *Session) { s.saver = saver }
}

// WithClock sets the time source used for createdAt and generated ids.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDSource overrides how unique ids are generated.
func WithIDSource(ids IDSource) Option {
	return func(s *Session) { s.ids = ids }
}

// WithGrid sets the initial grid size and snapping.
func WithGrid(size float64, snap bool) Option {
	return func(s *Session) { s.grid = Grid{Size: size, Snap: snap} }
}

// WithHistoryLimit caps the number of history snapshots. Zero is unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.historyLimit = n }
}

type dragState struct {
	ids     []string
	origins map[string][2]float64
}

// Session is one designer session over one room.
type Session struct {
	room      *models.Dimensions
	theme     models.Theme
	bedLimit  int
	grid      Grid
	store     *Store
	history   *History
	selection Selection
	warnings  []string
	drag      *dragState

	historyLimit int
	ids          IDSource
	logger       *zap.Logger
	notifier     Notifier
	backup       Backup
	saver        Saver
	now          func() time.Time
}

// NewSession opens a session over the given room data. When the data has no
// usable dimensions the session needs Setup before elements can be edited.
func NewSession(data models.RoomData, opts ...Option) *Session {
	s := &Session{
		theme:    models.DefaultTheme(),
		bedLimit: data.BedCount,
		grid:     Grid{Size: geometry.DefaultGridSize, Snap: true},
		logger:   zap.NewNop(),
		notifier: nopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = timeIDSource{now: s.now}
	}

	if d := data.Dimensions; d != nil && d.Length > 0 && d.Width > 0 {
		dims := *d
		s.room = &dims
	}
	if data.Theme != nil {
		s.theme = *data.Theme
	}

	s.store = NewStore(elementsFromRoomData(data), s.ids)
	s.history = NewHistory(s.store.Elements(), s.historyLimit)
	s.refreshWarnings()

	s.logger.Debug("Designer session opened",
		zap.Int("elements", s.store.Len()),
		zap.Int("bed_limit", s.bedLimit),
		zap.Bool("needs_setup", s.room == nil),
	)
	return s
}

// NeedsSetup reports whether the room dimensions are still unknown.
func (s *Session) NeedsSetup() bool {
	return s.room == nil
}

// Setup applies the setup wizard. The room must be at least 6 x 6 x 7 feet.
func (s *Session) Setup(in SetupInput) error {
	if s.drag != nil {
		return ErrDragInProgress
	}
	if in.LengthFt < minSetupLengthFt || in.WidthFt < minSetupWidthFt || in.HeightFt < minSetupHeightFt {
		err := fmt.Errorf("%w: minimum is %.0f x %.0f x %.0f ft, got %g x %g x %g",
			ErrInvalidDimensions, minSetupLengthFt, minSetupWidthFt, minSetupHeightFt,
			in.LengthFt, in.WidthFt, in.HeightFt)
		s.reject("setup", err)
		return err
	}

	theme := s.theme
	switch {
	case in.Theme != nil:
		if err := in.Theme.Validate(); err != nil {
			s.reject("setup", err)
			return err
		}
		theme = *in.Theme
	case in.ThemeName != "":
		preset, err := models.ThemePreset(in.ThemeName)
		if err != nil {
			s.reject("setup", err)
			return err
		}
		theme = preset
	}

	s.room = &models.Dimensions{
		Length: feetToMetersRounded(in.LengthFt),
		Width:  feetToMetersRounded(in.WidthFt),
		Height: feetToMetersRounded(in.HeightFt),
	}
	s.theme = theme
	s.refreshWarnings()
	s.backupLayout()

	s.logger.Info("Room setup completed",
		zap.Float64("length", s.room.Length),
		zap.Float64("width", s.room.Width),
		zap.Float64("height", s.room.Height),
		zap.String("theme", s.theme.Name),
	)
	return nil
}

// SetTheme replaces the room theme. History holds elements only, so the
// change is not undoable.
func (s *Session) SetTheme(theme models.Theme) error {
	if err := theme.Validate(); err != nil {
		s.reject("theme", err)
		return err
	}
	s.theme = theme
	s.backupLayout()
	return nil
}

// SetSnapToGrid toggles snapping for placement and drag.
func (s *Session) SetSnapToGrid(enabled bool) {
	s.grid.Snap = enabled
}

// SetGridSize changes the snapping grid. Sizes below geometry.MinGridSize
// are rejected.
func (s *Session) SetGridSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size < geometry.MinGridSize {
		return fmt.Errorf("%w: grid size must be at least %g", ErrInvalidUpdate, geometry.MinGridSize)
	}
	s.grid.Size = size
	return nil
}

// AddElement places a new element of type t. Beds that would exceed the
// room's bed count are rejected with a *CapacityError. When no free spot is
// found the element still goes in, at the origin.
func (s *Session) AddElement(t models.ElementType) (models.Element, error) {
	if err := s.guard(); err != nil {
		return models.Element{}, err
	}

	e, placed, err := s.store.Add(t, *s.room, s.grid, s.bedLimit)
	if err != nil {
		s.reject("add", err)
		return models.Element{}, err
	}
	if !placed {
		s.logger.Warn("No free spot found, element placed at origin", zap.String("id", e.ID))
		s.notifier.Notify(Notice{
			Level:   NoticeWarning,
			Op:      "add",
			Message: fmt.Sprintf("No free spot for %s; it was placed in the corner, move it manually", e.ID),
		})
	}

	s.commit()
	s.logger.Info("Added element", zap.String("id", e.ID), zap.String("type", string(e.Type)))
	return e, nil
}

// UpdateElement merges a partial update into the element.
func (s *Session) UpdateElement(id string, u models.ElementUpdate) (models.Element, error) {
	if err := s.guard(); err != nil {
		return models.Element{}, err
	}

	e, err := s.store.Update(id, u)
	if err != nil {
		s.reject("update", err)
		return models.Element{}, err
	}
	s.commit()
	return e, nil
}

// DeleteElement removes the element and clears the selection if it was
// selected.
func (s *Session) DeleteElement(id string) error {
	if err := s.guard(); err != nil {
		return err
	}

	if err := s.store.Delete(id); err != nil {
		s.reject("delete", err)
		return err
	}
	s.selection.Deselect(id)
	s.commit()
	s.logger.Info("Deleted element", zap.String("id", id))
	return nil
}

// DuplicateElement duplicates a single element.
func (s *Session) DuplicateElement(id string) (models.Element, error) {
	created, err := s.DuplicateElements([]string{id})
	if err != nil {
		return models.Element{}, err
	}
	return created[0], nil
}

// DuplicateElements duplicates every listed element. Duplicated bunk beds
// never carry over student assignments.
func (s *Session) DuplicateElements(ids []string) ([]models.Element, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		err := fmt.Errorf("%w: no elements given", ErrElementNotFound)
		s.reject("duplicate", err)
		return nil, err
	}

	created, err := s.store.Duplicate(ids, *s.room)
	if err != nil {
		s.reject("duplicate", err)
		return nil, err
	}
	s.commit()
	return created, nil
}

// RotateElement turns the element by 90 degrees.
func (s *Session) RotateElement(id string) (models.Element, error) {
	if err := s.guard(); err != nil {
		return models.Element{}, err
	}

	e, err := s.store.Rotate(id)
	if err != nil {
		s.reject("rotate", err)
		return models.Element{}, err
	}
	s.commit()
	return e, nil
}

// MoveElements shifts the elements by (dx, dy) as one discrete action.
// Each element is snapped and clamped on its own; collisions only show up
// as warnings.
func (s *Session) MoveElements(ids []string, dx, dy float64) error {
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.store.Move(ids, dx, dy, *s.room, s.grid); err != nil {
		s.reject("move", err)
		return err
	}
	s.commit()
	return nil
}

// BeginDrag starts a live drag of ids, or of the current selection when ids
// is empty.
func (s *Session) BeginDrag(ids []string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if len(ids) == 0 {
		ids = s.selection.IDs()
	}

	drag := &dragState{origins: make(map[string][2]float64, len(ids))}
	for _, id := range ids {
		e, ok := s.store.Get(id)
		if !ok {
			continue
		}
		if _, seen := drag.origins[id]; seen {
			continue
		}
		drag.ids = append(drag.ids, id)
		drag.origins[id] = [2]float64{e.X, e.Y}
	}
	if len(drag.ids) == 0 {
		return fmt.Errorf("%w: nothing to drag", ErrElementNotFound)
	}

	s.drag = drag
	return nil
}

// DragBy moves the dragged elements to their start positions offset by
// (dx, dy). Intermediate positions are not recorded in history and
// collisions are not checked while dragging.
func (s *Session) DragBy(dx, dy float64) error {
	if s.drag == nil {
		return ErrNoDrag
	}
	for _, id := range s.drag.ids {
		o := s.drag.origins[id]
		s.store.Place(id, o[0]+dx, o[1]+dy, *s.room, s.grid)
	}
	return nil
}

// EndDrag finishes the drag. If anything moved one history entry is
// committed; warnings are recomputed either way.
func (s *Session) EndDrag() (moved bool, err error) {
	if s.drag == nil {
		return false, ErrNoDrag
	}

	for _, id := range s.drag.ids {
		e, ok := s.store.Get(id)
		if !ok {
			continue
		}
		o := s.drag.origins[id]
		if e.X != o[0] || e.Y != o[1] {
			moved = true
			break
		}
	}
	s.drag = nil

	if moved {
		s.commit()
	} else {
		s.refreshWarnings()
	}
	return moved, nil
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	return s.drag != nil
}

// Select applies a click. An empty id is a click on empty space.
func (s *Session) Select(id string, multi bool) error {
	if id == "" {
		s.selection.Clear()
		return nil
	}
	if _, ok := s.store.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	s.selection.Click(id, multi)
	return nil
}

// Undo restores the previous snapshot.
func (s *Session) Undo() error {
	if s.drag != nil {
		return ErrDragInProgress
	}
	snapshot, ok := s.history.Undo()
	if !ok {
		return ErrNothingToUndo
	}
	s.restore(snapshot)
	return nil
}

// Redo restores the next snapshot.
func (s *Session) Redo() error {
	if s.drag != nil {
		return ErrDragInProgress
	}
	snapshot, ok := s.history.Redo()
	if !ok {
		return ErrNothingToRedo
	}
	s.restore(snapshot)
	return nil
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }

func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// ClearRoom removes every element and clears the selection.
func (s *Session) ClearRoom() error {
	if err := s.guard(); err != nil {
		return err
	}
	s.store.Clear()
	s.selection = Selection{}
	s.commit()
	s.logger.Info("Cleared room")
	return nil
}

// Layout assembles the layout document from the current state.
func (s *Session) Layout() models.Layout {
	var dims models.Dimensions
	if s.room != nil {
		dims = *s.room
	}
	return models.Layout{
		Dimensions: dims,
		Elements:   s.store.Elements(),
		Theme:      s.theme,
		CreatedAt:  s.now().UTC(),
		Warnings:   append([]string{}, s.warnings...),
	}
}

// SaveLayout assembles the layout and hands it to the save-room
// collaborator. Nothing is persisted by the session itself.
func (s *Session) SaveLayout(ctx context.Context) (models.Layout, error) {
	if err := s.guard(); err != nil {
		return models.Layout{}, err
	}

	layout := s.Layout()
	if s.saver == nil {
		return layout, nil
	}
	if err := s.saver.SaveLayout(ctx, layout); err != nil {
		s.logger.Error("Failed to save layout", zap.Error(err))
		s.notifier.Notify(Notice{Level: NoticeError, Op: "save", Message: "Failed to save the room layout"})
		return models.Layout{}, fmt.Errorf("failed to save layout: %w", err)
	}

	s.logger.Info("Saved layout", zap.Int("elements", len(layout.Elements)))
	s.notifier.Notify(Notice{Level: NoticeInfo, Op: "save", Message: "Room layout saved"})
	return layout, nil
}

// Elements returns a copy of the current elements.
func (s *Session) Elements() []models.Element {
	return s.store.Elements()
}

// Element returns a copy of one element.
func (s *Session) Element(id string) (models.Element, bool) {
	return s.store.Get(id)
}

// Warnings returns the current soft warnings.
func (s *Session) Warnings() []string {
	return append([]string{}, s.warnings...)
}

// Dimensions returns the room dimensions once known.
func (s *Session) Dimensions() (models.Dimensions, bool) {
	if s.room == nil {
		return models.Dimensions{}, false
	}
	return *s.room, true
}

// Theme returns the room theme.
func (s *Session) Theme() models.Theme {
	return s.theme
}

// Grid returns the snapping configuration.
func (s *Session) Grid() Grid {
	return s.grid
}

// Selection returns the observable selection state.
func (s *Session) Selection() models.SelectionState {
	return s.selection.State()
}

// Capacity reports sleeping capacity against the room bed count.
func (s *Session) Capacity() models.Capacity {
	c := models.Capacity{Limit: s.bedLimit, Used: s.store.SleepingCapacity()}
	if c.Limit > 0 && c.Limit > c.Used {
		c.Remaining = c.Limit - c.Used
	}
	return c
}

func (s *Session) guard() error {
	if s.room == nil {
		return ErrSetupRequired
	}
	if s.drag != nil {
		return ErrDragInProgress
	}
	return nil
}

func (s *Session) commit() {
	s.history.Commit(s.store.Elements())
	s.refreshWarnings()
	s.backupLayout()
}

func (s *Session) restore(snapshot []models.Element) {
	s.store.Restore(snapshot)
	s.selection.Retain(func(id string) bool {
		_, ok := s.store.Get(id)
		return ok
	})
	s.refreshWarnings()
	s.backupLayout()
}

func (s *Session) refreshWarnings() {
	if s.room == nil {
		s.warnings = []string{}
		return
	}
	s.warnings = ComputeWarnings(*s.room, s.store.elements, s.bedLimit)
}

func (s *Session) backupLayout() {
	if s.backup == nil {
		return
	}
	if err := s.backup.Backup(s.Layout()); err != nil {
		s.logger.Warn("Failed to back up layout", zap.Error(err))
	}
}

func (s *Session) reject(op string, err error) {
	s.logger.Info("Operation rejected", zap.String("op", op), zap.Error(err))

	msg := err.Error()
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		msg = fmt.Sprintf("Cannot add bed: room allows %d beds and %d are already placed", capErr.Limit, capErr.Current)
	}
	s.notifier.Notify(Notice{Level: NoticeError, Op: op, Message: msg})
}

func feetToMetersRounded(ft float64) float64 {
	return math.Round(ft*feetToMeters*1000) / 1000
}
