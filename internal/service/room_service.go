package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/capmoment/captionroom/internal/domain"
	"github.com/capmoment/captionroom/internal/repository"
)

// RoomService coordinates room lifecycle operations.
type RoomService struct {
	roomRepo *repository.RoomRepository
}

// NewRoomService creates a new RoomService.
func NewRoomService(roomRepo *repository.RoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

// CreateRoom mints a new room with a short shareable ID and a host token.
func (s *RoomService) CreateRoom(ctx context.Context) (*domain.Room, error) {
	roomID := uuid.NewString()[:domain.RoomIDLength]

	room, err := s.roomRepo.Create(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	slog.Info("room created", "room_id", room.ID)

	return room, nil
}

// GetRoom retrieves a room by ID.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	if len(roomID) != domain.RoomIDLength {
		return nil, domain.ErrInvalidRoomID
	}
	return s.roomRepo.GetByID(ctx, roomID)
}

// GetSummary retrieves a room together with its image and caption counts.
func (s *RoomService) GetSummary(ctx context.Context, roomID string) (*domain.Room, *domain.RoomSummary, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	summary, err := s.roomRepo.GetSummary(ctx, roomID)
	if err != nil {
		return nil, nil, fmt.Errorf("get room summary: %w", err)
	}

	return room, summary, nil
}
