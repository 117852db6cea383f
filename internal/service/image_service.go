package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/capmoment/captionroom/internal/domain"
	"github.com/capmoment/captionroom/internal/repository"
	"github.com/capmoment/captionroom/internal/storage"
)

// ImageService coordinates image uploads, serving and deletion.
type ImageService struct {
	pool        *pgxpool.Pool
	imageRepo   *repository.ImageRepository
	captionRepo *repository.CaptionRepository
	store       *storage.Store
}

// NewImageService creates a new ImageService.
func NewImageService(
	pool *pgxpool.Pool,
	imageRepo *repository.ImageRepository,
	captionRepo *repository.CaptionRepository,
	store *storage.Store,
) *ImageService {
	return &ImageService{
		pool:        pool,
		imageRepo:   imageRepo,
		captionRepo: captionRepo,
		store:       store,
	}
}

// Upload stores one uploaded file for a room: bytes to disk first, then the
// metadata row. If the insert fails the file is removed again so disk and
// database stay in step.
func (s *ImageService) Upload(ctx context.Context, roomID, originalName string, r io.Reader) (*domain.Image, error) {
	if !domain.AllowedImageName(originalName) {
		return nil, domain.ErrUnsupportedImage
	}

	storedName, size, err := s.store.Save(roomID, originalName, r)
	if err != nil {
		return nil, fmt.Errorf("save image file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(storedName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	img := &domain.Image{
		RoomID:       roomID,
		StoredName:   storedName,
		OriginalName: storage.SanitizeName(originalName),
		ContentType:  contentType,
		SizeBytes:    size,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if _, err := s.imageRepo.Create(ctx, tx, img); err != nil {
		s.discardFile(roomID, storedName)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.discardFile(roomID, storedName)
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("image uploaded",
		"room_id", roomID,
		"stored_name", storedName,
		"size_bytes", size,
	)

	return img, nil
}

// List returns a room's non-trashed images, newest first, each with its
// captions.
func (s *ImageService) List(ctx context.Context, roomID string) ([]*domain.Image, map[string][]*domain.Caption, error) {
	images, err := s.imageRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	captions := make(map[string][]*domain.Caption, len(images))
	for _, img := range images {
		list, err := s.captionRepo.ListByImage(ctx, img.ID)
		if err != nil {
			return nil, nil, err
		}
		captions[img.ID] = list
	}

	return images, captions, nil
}

// Open resolves an image name and opens its file for serving.
func (s *ImageService) Open(ctx context.Context, roomID, storedName string) (*domain.Image, *os.File, error) {
	img, err := s.imageRepo.GetByName(ctx, roomID, storedName)
	if err != nil {
		return nil, nil, err
	}
	if img.IsTrashed() {
		return nil, nil, domain.ErrImageNotFound
	}

	f, err := s.store.Open(roomID, storedName)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}

	return img, f, nil
}

// Delete moves an image to the room trash and removes its captions. The
// database transaction settles first; only then is the file moved, so a
// concurrent delete of the same image loses cleanly on the trashed_at guard.
func (s *ImageService) Delete(ctx context.Context, roomID, storedName string) error {
	img, err := s.imageRepo.GetByName(ctx, roomID, storedName)
	if err != nil {
		return err
	}
	if img.IsTrashed() {
		return domain.ErrImageTrashed
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if err := s.imageRepo.MarkTrashed(ctx, tx, img.ID); err != nil {
		return err
	}

	if err := s.captionRepo.DeleteByImage(ctx, tx, img.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	if err := s.store.Trash(roomID, storedName); err != nil {
		// Row is already marked; the orphaned file gets swept by purge.
		slog.Error("failed to move image file to trash",
			"room_id", roomID,
			"stored_name", storedName,
			"error", err,
		)
	}

	slog.Info("image deleted", "room_id", roomID, "stored_name", storedName)

	return nil
}

// PurgeTrash permanently removes images trashed before the cutoff, file and
// row both. Returns the number of images purged.
func (s *ImageService) PurgeTrash(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	images, err := s.imageRepo.FindTrashedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, img := range images {
		if err := s.store.RemoveTrashed(img.RoomID, img.StoredName); err != nil {
			slog.Error("failed to remove trashed file",
				"room_id", img.RoomID,
				"stored_name", img.StoredName,
				"error", err,
			)
			continue
		}
		if err := s.imageRepo.Delete(ctx, img.ID); err != nil {
			return purged, err
		}
		purged++
	}

	slog.Info("trash purged", "purged", purged, "cutoff", cutoff)

	return purged, nil
}

// discardFile removes a freshly saved file after a failed metadata insert.
func (s *ImageService) discardFile(roomID, storedName string) {
	if err := s.store.Trash(roomID, storedName); err != nil {
		slog.Error("failed to discard image file",
			"room_id", roomID,
			"stored_name", storedName,
			"error", err,
		)
	}
}
