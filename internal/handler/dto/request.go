package dto

// CreateCaptionRequest represents the request body for
// POST /rooms/{id}/images/{name}/captions.
type CreateCaptionRequest struct {
	PlayerName string `json:"player_name,omitempty"`
	Text       string `json:"text"`
}
