package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/capmoment/captionroom/internal/domain"
)

// RoomRepository handles database operations for rooms.
type RoomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// Create inserts a room with the given ID and returns it with the generated
// host token and creation time populated.
func (r *RoomRepository) Create(ctx context.Context, roomID string) (*domain.Room, error) {
	query, args, err := psql.
		Insert("rooms").
		Columns("id").
		Values(roomID).
		Suffix("RETURNING id, host_token, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for room %s: %w", roomID, err)
	}

	var room domain.Room
	err = r.pool.QueryRow(ctx, query, args...).Scan(&room.ID, &room.HostToken, &room.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	return &room, nil
}

// GetByID retrieves a room by ID, host token included.
func (r *RoomRepository) GetByID(ctx context.Context, roomID string) (*domain.Room, error) {
	query, args, err := psql.
		Select("id", "host_token", "created_at").
		From("rooms").
		Where(sq.Eq{"id": roomID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for room %s: %w", roomID, err)
	}

	var room domain.Room
	err = r.pool.QueryRow(ctx, query, args...).Scan(&room.ID, &room.HostToken, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("query room: %w", err)
	}

	return &room, nil
}

// GetSummary returns aggregate image and caption counts for a room,
// excluding trashed images.
func (r *RoomRepository) GetSummary(ctx context.Context, roomID string) (*domain.RoomSummary, error) {
	query, args, err := psql.
		Select(
			"COUNT(DISTINCT i.id) AS image_count",
			"COUNT(c.id) AS caption_count",
		).
		From("images i").
		LeftJoin("captions c ON c.image_id = i.id").
		Where(sq.Eq{"i.room_id": roomID, "i.trashed_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetSummary query for room %s: %w", roomID, err)
	}

	var summary domain.RoomSummary
	err = r.pool.QueryRow(ctx, query, args...).Scan(&summary.ImageCount, &summary.CaptionCount)
	if err != nil {
		return nil, fmt.Errorf("query room summary: %w", err)
	}

	return &summary, nil
}
