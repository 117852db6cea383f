package handler

import (
	"log/slog"
	"net/http"

	"github.com/capmoment/captionroom/internal/domain"
	"github.com/capmoment/captionroom/internal/handler/dto"
	"github.com/capmoment/captionroom/internal/middleware"
)

// maxUploadBytes bounds a single multipart upload request.
const maxUploadBytes = 32 << 20

// handleUploadImages accepts one or more image files from the host.
// @Summary Upload images
// @Description Host-only multipart upload. Accepts png, jpg, jpeg and gif files under the "images" field.
// @Tags images
// @Accept mpfd
// @Produce json
// @Param id path string true "Room ID"
// @Param images formData file true "Image files"
// @Success 201 {object} dto.UploadResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security HostToken
// @Router /rooms/{id}/images [post]
func (h *Handler) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	room, err := middleware.GetRoomFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_HOST_TOKEN", "Host authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Invalid multipart request body")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondDomainError(w, domain.ErrNoFilesUploaded)
		return
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Unreadable file part")
			return
		}

		img, err := h.imageService.Upload(ctx, room.ID, fh.Filename, f)
		f.Close()
		if err != nil {
			respondDomainError(w, err)
			return
		}

		saved = append(saved, img.StoredName)
	}

	respondJSON(w, http.StatusCreated, dto.UploadResponse{Saved: saved})
}

// handleListImages lists a room's images, newest first, with captions.
// @Summary List room images
// @Tags images
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} dto.ImagesListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /rooms/{id}/images [get]
func (h *Handler) handleListImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID := r.PathValue("id")
	if _, err := h.roomService.GetRoom(ctx, roomID); err != nil {
		respondDomainError(w, err)
		return
	}

	images, captions, err := h.imageService.List(ctx, roomID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.ImagesListResponse{
		Images: make([]dto.ImageResponse, len(images)),
		Total:  len(images),
	}
	for i, img := range images {
		resp.Images[i] = dto.ToImageResponse(img, captions[img.ID])
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleServeImage streams a stored image's bytes.
// @Summary Serve an image
// @Tags images
// @Produce octet-stream
// @Param id path string true "Room ID"
// @Param name path string true "Stored image name"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Router /rooms/{id}/images/{name} [get]
func (h *Handler) handleServeImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID := r.PathValue("id")
	storedName := r.PathValue("name")

	img, f, err := h.imageService.Open(ctx, roomID, storedName)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", img.ContentType)
	http.ServeContent(w, r, img.StoredName, img.UploadedAt, f)
}

// handleDeleteImage moves an image to the room trash.
// @Summary Delete an image
// @Description Host-only. Moves the file to the room trash and removes its captions.
// @Tags images
// @Produce json
// @Param id path string true "Room ID"
// @Param name path string true "Stored image name"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security HostToken
// @Router /rooms/{id}/images/{name} [delete]
func (h *Handler) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	room, err := middleware.GetRoomFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_HOST_TOKEN", "Host authentication required")
		return
	}

	storedName := r.PathValue("name")
	if storedName == "" {
		respondDomainError(w, domain.ErrInvalidImageName)
		return
	}

	if err := h.imageService.Delete(ctx, room.ID, storedName); err != nil {
		respondDomainError(w, err)
		return
	}

	slog.Debug("image delete handled", "room_id", room.ID, "stored_name", storedName)

	w.WriteHeader(http.StatusNoContent)
}
