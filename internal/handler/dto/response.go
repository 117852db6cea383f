package dto

import (
	"fmt"
	"time"

	"github.com/capmoment/captionroom/internal/domain"
)

// RoomCreatedResponse represents the response for POST /rooms. The host
// token appears here and nowhere else.
type RoomCreatedResponse struct {
	ID        string    `json:"id"`
	HostToken string    `json:"host_token"`
	ShareLink string    `json:"share_link"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomDetailResponse represents the response for GET /rooms/{id}.
type RoomDetailResponse struct {
	ID           string    `json:"id"`
	ImageCount   int       `json:"image_count"`
	CaptionCount int       `json:"caption_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// CaptionResponse represents a single caption.
type CaptionResponse struct {
	PlayerName string    `json:"player_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ImageResponse represents an image with its captions.
type ImageResponse struct {
	Name         string            `json:"name"`
	OriginalName string            `json:"original_name"`
	ContentType  string            `json:"content_type"`
	SizeBytes    int64             `json:"size_bytes"`
	URL          string            `json:"url"`
	UploadedAt   time.Time         `json:"uploaded_at"`
	Captions     []CaptionResponse `json:"captions"`
}

// ImagesListResponse represents the response for GET /rooms/{id}/images.
type ImagesListResponse struct {
	Images []ImageResponse `json:"images"`
	Total  int             `json:"total"`
}

// UploadResponse represents the response for POST /rooms/{id}/images.
type UploadResponse struct {
	Saved []string `json:"saved"`
}

// RecentImageCaptions represents the trailing captions of one image.
type RecentImageCaptions struct {
	ImageName string            `json:"image_name"`
	Total     int               `json:"total"`
	Captions  []CaptionResponse `json:"captions"`
}

// RecentCaptionsResponse represents the response for
// GET /rooms/{id}/captions/recent.
type RecentCaptionsResponse struct {
	Items []RecentImageCaptions `json:"items"`
}

// ImageURL builds the serving path for a stored image.
func ImageURL(roomID, storedName string) string {
	return fmt.Sprintf("/api/v1/rooms/%s/images/%s", roomID, storedName)
}

// ToRoomCreatedResponse converts a domain.Room to RoomCreatedResponse.
func ToRoomCreatedResponse(room *domain.Room, shareLink string) RoomCreatedResponse {
	return RoomCreatedResponse{
		ID:        room.ID,
		HostToken: room.HostToken,
		ShareLink: shareLink,
		CreatedAt: room.CreatedAt,
	}
}

// ToCaptionResponse converts a domain.Caption to CaptionResponse.
func ToCaptionResponse(caption *domain.Caption) CaptionResponse {
	return CaptionResponse{
		PlayerName: caption.PlayerName,
		Text:       caption.Text,
		CreatedAt:  caption.CreatedAt,
	}
}

// ToCaptionResponses converts a slice of captions.
func ToCaptionResponses(captions []*domain.Caption) []CaptionResponse {
	out := make([]CaptionResponse, len(captions))
	for i, caption := range captions {
		out[i] = ToCaptionResponse(caption)
	}
	return out
}

// ToImageResponse converts a domain.Image plus its captions.
func ToImageResponse(img *domain.Image, captions []*domain.Caption) ImageResponse {
	return ImageResponse{
		Name:         img.StoredName,
		OriginalName: img.OriginalName,
		ContentType:  img.ContentType,
		SizeBytes:    img.SizeBytes,
		URL:          ImageURL(img.RoomID, img.StoredName),
		UploadedAt:   img.UploadedAt,
		Captions:     ToCaptionResponses(captions),
	}
}
