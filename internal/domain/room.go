package domain

import "time"

// RoomIDLength is the length of a room identifier: the first 8 characters
// of a random UUID, short enough to share by hand.
const RoomIDLength = 8

// Room is an isolated game session. The host holds the token minted at
// creation; players only need the room ID.
type Room struct {
	ID        string
	HostToken string
	CreatedAt time.Time
}

// RoomSummary carries per-room aggregate counts for the room detail view.
type RoomSummary struct {
	ImageCount   int
	CaptionCount int
}
