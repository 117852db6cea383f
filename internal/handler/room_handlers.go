package handler

import (
	"fmt"
	"net/http"

	"github.com/capmoment/captionroom/internal/handler/dto"
)

// handleCreateRoom creates a new room.
// @Summary Create a new room
// @Description Creates a room and returns its shareable ID plus the host token. The host token is shown only once.
// @Tags rooms
// @Produce json
// @Success 201 {object} dto.RoomCreatedResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /rooms [post]
func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	room, err := h.roomService.CreateRoom(ctx)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	shareLink := fmt.Sprintf("http://%s/?room_id=%s", r.Host, room.ID)

	respondJSON(w, http.StatusCreated, dto.ToRoomCreatedResponse(room, shareLink))
}

// handleGetRoom retrieves room details with aggregate counts.
// @Summary Get room details
// @Description Room creation time plus image and caption counts. The host token is never included.
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} dto.RoomDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /rooms/{id} [get]
func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID := r.PathValue("id")
	room, summary, err := h.roomService.GetSummary(ctx, roomID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.RoomDetailResponse{
		ID:           room.ID,
		ImageCount:   summary.ImageCount,
		CaptionCount: summary.CaptionCount,
		CreatedAt:    room.CreatedAt,
	})
}
