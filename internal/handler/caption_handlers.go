package handler

import (
	"encoding/json"
	"net/http"

	"github.com/capmoment/captionroom/internal/handler/dto"
)

// maxCaptionLength bounds a single caption submission.
const maxCaptionLength = 500

// handleCreateCaption records a player's caption for an image.
// @Summary Submit a caption
// @Tags captions
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param name path string true "Stored image name"
// @Param request body dto.CreateCaptionRequest true "Caption submission"
// @Success 201 {object} dto.CaptionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /rooms/{id}/images/{name}/captions [post]
func (h *Handler) handleCreateCaption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID := r.PathValue("id")
	storedName := r.PathValue("name")

	var req dto.CreateCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if len(req.Text) > maxCaptionLength {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "caption text too long")
		return
	}

	caption, err := h.captionService.Submit(ctx, roomID, storedName, req.PlayerName, req.Text)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToCaptionResponse(caption))
}

// handleRecentCaptions returns the trailing captions per image for a room.
// @Summary Recent captions
// @Description Last few captions for each image in the room, oldest image first.
// @Tags captions
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} dto.RecentCaptionsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /rooms/{id}/captions/recent [get]
func (h *Handler) handleRecentCaptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID := r.PathValue("id")
	if _, err := h.roomService.GetRoom(ctx, roomID); err != nil {
		respondDomainError(w, err)
		return
	}

	groups, err := h.captionService.Recent(ctx, roomID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.RecentCaptionsResponse{
		Items: make([]dto.RecentImageCaptions, len(groups)),
	}
	for i, group := range groups {
		resp.Items[i] = dto.RecentImageCaptions{
			ImageName: group.ImageName,
			Total:     group.Total,
			Captions:  dto.ToCaptionResponses(group.Captions),
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
