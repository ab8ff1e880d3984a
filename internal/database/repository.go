// Package database provides PostgreSQL storage for saved room layouts. It is
// the save-room and load-room collaborator of the designer.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/config"
	"github.com/hostel-manager/room-designer/internal/models"
)

// ErrLayoutNotFound is returned when deleting a room that has no layout.
var ErrLayoutNotFound = errors.New("layout not found")

// Repository defines the interface for saved layout operations.
type Repository interface {
	// GetLayout retrieves the saved layout of a room. It returns nil when the
	// room has none.
	GetLayout(ctx context.Context, roomID string) (*models.SavedLayout, error)

	// ListLayouts summarizes every saved room, most recently updated first.
	ListLayouts(ctx context.Context) ([]models.RoomSummary, error)

	// SaveLayout stores the layout of a room, replacing any previous one. A
	// nil bedCount keeps the stored bed count.
	SaveLayout(ctx context.Context, roomID string, layout *models.Layout, bedCount *int) (*models.SavedLayout, error)

	// DeleteLayout removes the saved layout of a room.
	DeleteLayout(ctx context.Context, roomID string) error

	// Close closes the database connection.
	Close()
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(cfg *config.Config, logger *zap.Logger) (Repository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresRepository{
		pool:   pool,
		logger: logger,
	}

	if err := repo.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to PostgreSQL database")
	return repo, nil
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS room_layouts (
			room_id VARCHAR(128) PRIMARY KEY,
			bed_count INTEGER NOT NULL DEFAULT 0 CHECK (bed_count >= 0),
			document JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_room_layouts_updated_at ON room_layouts(updated_at);
	`

	_, err := r.pool.Exec(ctx, query)
	return err
}

// GetLayout retrieves the saved layout of a room.
func (r *PostgresRepository) GetLayout(ctx context.Context, roomID string) (*models.SavedLayout, error) {
	query := `
		SELECT bed_count, document, updated_at
		FROM room_layouts
		WHERE room_id = $1
	`

	saved := models.SavedLayout{RoomID: roomID}
	var document []byte
	err := r.pool.QueryRow(ctx, query, roomID).Scan(&saved.BedCount, &document, &saved.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get layout", zap.String("room_id", roomID), zap.Error(err))
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}

	if err := json.Unmarshal(document, &saved.Layout); err != nil {
		r.logger.Error("Stored layout is not valid", zap.String("room_id", roomID), zap.Error(err))
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}

	return &saved, nil
}

// ListLayouts summarizes every saved room.
func (r *PostgresRepository) ListLayouts(ctx context.Context) ([]models.RoomSummary, error) {
	query := `
		SELECT room_id, bed_count, jsonb_array_length(document->'elements'), updated_at
		FROM room_layouts
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list layouts", zap.Error(err))
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	defer rows.Close()

	var summaries []models.RoomSummary
	for rows.Next() {
		var s models.RoomSummary
		if err := rows.Scan(&s.RoomID, &s.BedCount, &s.Elements, &s.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan layout row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	if summaries == nil {
		summaries = []models.RoomSummary{}
	}

	return summaries, nil
}

// SaveLayout stores the layout of a room.
func (r *PostgresRepository) SaveLayout(ctx context.Context, roomID string, layout *models.Layout, bedCount *int) (*models.SavedLayout, error) {
	doc := *layout
	doc.Normalize()
	document, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}

	query := `
		INSERT INTO room_layouts (room_id, bed_count, document, created_at, updated_at)
		VALUES ($1, COALESCE($2, 0), $3, $4, $4)
		ON CONFLICT (room_id) DO UPDATE
		SET bed_count = COALESCE($2, room_layouts.bed_count),
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
		RETURNING bed_count, updated_at
	`

	saved := &models.SavedLayout{RoomID: roomID, Layout: doc}
	err = r.pool.QueryRow(ctx, query, roomID, bedCount, document, time.Now().UTC()).
		Scan(&saved.BedCount, &saved.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save layout", zap.String("room_id", roomID), zap.Error(err))
		return nil, fmt.Errorf("failed to save layout: %w", err)
	}

	r.logger.Info("Saved layout",
		zap.String("room_id", roomID),
		zap.Int("elements", len(layout.Elements)),
		zap.Int("bed_count", saved.BedCount),
	)
	return saved, nil
}

// DeleteLayout removes the saved layout of a room.
func (r *PostgresRepository) DeleteLayout(ctx context.Context, roomID string) error {
	query := `DELETE FROM room_layouts WHERE room_id = $1`

	result, err := r.pool.Exec(ctx, query, roomID)
	if err != nil {
		r.logger.Error("Failed to delete layout", zap.String("room_id", roomID), zap.Error(err))
		return fmt.Errorf("failed to delete layout: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLayoutNotFound
	}

	r.logger.Info("Deleted layout", zap.String("room_id", roomID))
	return nil
}

// Close closes the database connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
	r.logger.Info("Closed database connection")
}
