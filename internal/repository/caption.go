package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/capmoment/captionroom/internal/domain"
)

// CaptionRepository handles database operations for captions.
type CaptionRepository struct {
	pool *pgxpool.Pool
}

// NewCaptionRepository creates a new CaptionRepository.
func NewCaptionRepository(pool *pgxpool.Pool) *CaptionRepository {
	return &CaptionRepository{pool: pool}
}

// Create inserts a caption and returns it with ID and CreatedAt populated.
func (r *CaptionRepository) Create(ctx context.Context, caption *domain.Caption) (*domain.Caption, error) {
	query, args, err := psql.
		Insert("captions").
		Columns("image_id", "player_name", "text").
		Values(caption.ImageID, caption.PlayerName, caption.Text).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for caption: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&caption.ID, &caption.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create caption: %w", err)
	}

	return caption, nil
}

// ListByImage retrieves all captions for an image in submission order.
func (r *CaptionRepository) ListByImage(ctx context.Context, imageID string) ([]*domain.Caption, error) {
	query, args, err := psql.
		Select("id", "image_id", "player_name", "text", "created_at").
		From("captions").
		Where(sq.Eq{"image_id": imageID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByImage query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query image captions: %w", err)
	}

	return scanCaptions(rows)
}

// ListByRoom retrieves all captions for a room's non-trashed images, joined
// with the image's stored name, in submission order.
func (r *CaptionRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Caption, map[string]string, error) {
	query, args, err := psql.
		Select("c.id", "c.image_id", "c.player_name", "c.text", "c.created_at", "i.stored_name").
		From("captions c").
		Join("images i ON i.id = c.image_id").
		Where(sq.Eq{"i.room_id": roomID, "i.trashed_at": nil}).
		OrderBy("c.created_at").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build ListByRoom query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query room captions: %w", err)
	}
	defer rows.Close()

	var captions []*domain.Caption
	imageNames := make(map[string]string)
	for rows.Next() {
		var caption domain.Caption
		var storedName string
		err := rows.Scan(
			&caption.ID,
			&caption.ImageID,
			&caption.PlayerName,
			&caption.Text,
			&caption.CreatedAt,
			&storedName,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scan caption: %w", err)
		}
		captions = append(captions, &caption)
		imageNames[caption.ImageID] = storedName
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}

	return captions, imageNames, nil
}

// DeleteByImage removes all captions for an image within a transaction.
func (r *CaptionRepository) DeleteByImage(ctx context.Context, tx pgx.Tx, imageID string) error {
	query, args, err := psql.
		Delete("captions").
		Where(sq.Eq{"image_id": imageID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build DeleteByImage query for image %s: %w", imageID, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete image captions: %w", err)
	}

	return nil
}

// scanCaptions scans caption rows into a slice.
func scanCaptions(rows pgx.Rows) ([]*domain.Caption, error) {
	defer rows.Close()

	var captions []*domain.Caption
	for rows.Next() {
		var caption domain.Caption
		err := rows.Scan(
			&caption.ID,
			&caption.ImageID,
			&caption.PlayerName,
			&caption.Text,
			&caption.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan caption: %w", err)
		}
		captions = append(captions, &caption)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return captions, nil
}
