package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/capmoment/captionroom/internal/domain"
)

// imageColumns is the shared list of columns for image queries.
var imageColumns = []string{
	"id", "room_id", "stored_name", "original_name", "content_type",
	"size_bytes", "uploaded_at", "trashed_at",
}

// ImageRepository handles database operations for images.
type ImageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

// scanImage scans a single row into an Image struct.
func scanImage(row pgx.Row) (*domain.Image, error) {
	var img domain.Image
	err := row.Scan(
		&img.ID,
		&img.RoomID,
		&img.StoredName,
		&img.OriginalName,
		&img.ContentType,
		&img.SizeBytes,
		&img.UploadedAt,
		&img.TrashedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("scan image: %w", err)
	}
	return &img, nil
}

// scanImages scans multiple rows into a slice of Image structs.
func scanImages(rows pgx.Rows) ([]*domain.Image, error) {
	defer rows.Close()

	var images []*domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return images, nil
}

// Create inserts image metadata within a transaction and returns the image
// with ID and UploadedAt populated.
func (r *ImageRepository) Create(ctx context.Context, tx pgx.Tx, img *domain.Image) (*domain.Image, error) {
	query, args, err := psql.
		Insert("images").
		Columns("room_id", "stored_name", "original_name", "content_type", "size_bytes").
		Values(img.RoomID, img.StoredName, img.OriginalName, img.ContentType, img.SizeBytes).
		Suffix("RETURNING id, uploaded_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for image: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&img.ID, &img.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}

	return img, nil
}

// GetByName retrieves an image by room and stored name.
func (r *ImageRepository) GetByName(ctx context.Context, roomID, storedName string) (*domain.Image, error) {
	query, args, err := psql.
		Select(imageColumns...).
		From("images").
		Where(sq.Eq{"room_id": roomID, "stored_name": storedName}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByName query for image %s: %w", storedName, err)
	}

	return scanImage(r.pool.QueryRow(ctx, query, args...))
}

// ListByRoom retrieves all non-trashed images for a room, newest first.
func (r *ImageRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Image, error) {
	query, args, err := psql.
		Select(imageColumns...).
		From("images").
		Where(sq.Eq{"room_id": roomID, "trashed_at": nil}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByRoom query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query room images: %w", err)
	}

	return scanImages(rows)
}

// MarkTrashed flags an image as trashed within a transaction. Returns
// ErrImageTrashed if the image was already trashed by a concurrent request.
func (r *ImageRepository) MarkTrashed(ctx context.Context, tx pgx.Tx, imageID string) error {
	query, args, err := psql.
		Update("images").
		Set("trashed_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": imageID, "trashed_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkTrashed query for image %s: %w", imageID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark image trashed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrImageTrashed
	}

	return nil
}

// FindTrashedBefore retrieves images trashed before the cutoff, across all
// rooms. Used by the purge-trash command.
func (r *ImageRepository) FindTrashedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Image, error) {
	query, args, err := psql.
		Select(imageColumns...).
		From("images").
		Where(sq.Lt{"trashed_at": cutoff}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindTrashedBefore query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trashed images: %w", err)
	}

	return scanImages(rows)
}

// Delete permanently removes an image row. Caption rows go with it via
// ON DELETE CASCADE.
func (r *ImageRepository) Delete(ctx context.Context, imageID string) error {
	query, args, err := psql.
		Delete("images").
		Where(sq.Eq{"id": imageID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for image %s: %w", imageID, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	return nil
}
