package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/cache"
	"github.com/hostel-manager/room-designer/internal/database"
	"github.com/hostel-manager/room-designer/internal/metrics"
	"github.com/hostel-manager/room-designer/internal/models"
)

const draftTimeout = 2 * time.Second

// roomSaver persists a session's layout as the saved layout of its room.
type roomSaver struct {
	repo     database.Repository
	cache    cache.Cache
	metrics  *metrics.Metrics
	roomID   string
	bedCount *int
}

func (s *roomSaver) SaveLayout(ctx context.Context, layout models.Layout) error {
	saved, err := s.repo.SaveLayout(ctx, s.roomID, &layout, s.bedCount)
	if err != nil {
		s.metrics.IncSaves(metrics.OutcomeError)
		return err
	}
	s.metrics.IncSaves(metrics.OutcomeSuccess)

	_ = s.cache.SetLayout(ctx, saved)
	_ = s.cache.DeleteDraft(ctx, s.roomID)
	return nil
}

// draftBackup keeps the latest unsaved layout of a room in the cache.
type draftBackup struct {
	cache  cache.Cache
	roomID string
	logger *zap.Logger
}

func (b *draftBackup) Backup(layout models.Layout) error {
	ctx, cancel := context.WithTimeout(context.Background(), draftTimeout)
	defer cancel()

	layout.Normalize()
	if err := b.cache.SaveDraft(ctx, b.roomID, layout); err != nil {
		return err
	}
	b.logger.Debug("Backed up draft", zap.String("room_id", b.roomID))
	return nil
}
