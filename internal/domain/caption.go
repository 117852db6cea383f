package domain

import "time"

// DefaultPlayerName is used when a player submits a caption without a name.
const DefaultPlayerName = "Player"

// Caption is a single player submission for an image.
type Caption struct {
	ID         string
	ImageID    string
	PlayerName string
	Text       string
	CreatedAt  time.Time
}

// ImageCaptions groups an image's captions for the recent-captions view.
type ImageCaptions struct {
	ImageName string
	Total     int
	Captions  []*Caption
}
