package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/capmoment/captionroom/internal/domain"
	"github.com/capmoment/captionroom/internal/repository"
)

// RecentCaptionsPerImage is how many trailing captions the recent view shows
// for each image.
const RecentCaptionsPerImage = 5

// CaptionService coordinates caption submission and the recent-captions view.
type CaptionService struct {
	imageRepo   *repository.ImageRepository
	captionRepo *repository.CaptionRepository
}

// NewCaptionService creates a new CaptionService.
func NewCaptionService(
	imageRepo *repository.ImageRepository,
	captionRepo *repository.CaptionRepository,
) *CaptionService {
	return &CaptionService{
		imageRepo:   imageRepo,
		captionRepo: captionRepo,
	}
}

// Submit records a caption for an image. Text is trimmed and must be
// non-empty; a missing player name falls back to the default.
func (s *CaptionService) Submit(ctx context.Context, roomID, storedName, playerName, text string) (*domain.Caption, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyCaption
	}

	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		playerName = domain.DefaultPlayerName
	}

	img, err := s.imageRepo.GetByName(ctx, roomID, storedName)
	if err != nil {
		return nil, err
	}
	if img.IsTrashed() {
		return nil, domain.ErrImageNotFound
	}

	caption, err := s.captionRepo.Create(ctx, &domain.Caption{
		ImageID:    img.ID,
		PlayerName: playerName,
		Text:       text,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("caption submitted",
		"room_id", roomID,
		"stored_name", storedName,
		"caption_id", caption.ID,
	)

	return caption, nil
}

// Recent groups a room's captions by image, keeping only the trailing
// RecentCaptionsPerImage of each but reporting the full per-image total.
func (s *CaptionService) Recent(ctx context.Context, roomID string) ([]*domain.ImageCaptions, error) {
	captions, imageNames, err := s.captionRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	byImage := make(map[string]*domain.ImageCaptions)
	var order []string
	for _, caption := range captions {
		group, ok := byImage[caption.ImageID]
		if !ok {
			group = &domain.ImageCaptions{ImageName: imageNames[caption.ImageID]}
			byImage[caption.ImageID] = group
			order = append(order, caption.ImageID)
		}
		group.Total++
		group.Captions = append(group.Captions, caption)
		if len(group.Captions) > RecentCaptionsPerImage {
			group.Captions = group.Captions[1:]
		}
	}

	result := make([]*domain.ImageCaptions, 0, len(order))
	for _, imageID := range order {
		result = append(result, byImage[imageID])
	}

	return result, nil
}

// rollback rolls a transaction back, tolerating the already-closed case
// after a successful commit.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		slog.Error("failed to rollback transaction", "error", err)
	}
}
