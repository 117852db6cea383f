package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Room errors
	ErrRoomNotFound  = errors.New("room not found")
	ErrInvalidRoomID = errors.New("invalid room id")

	// Image errors
	ErrImageNotFound    = errors.New("image not found")
	ErrImageTrashed     = errors.New("image already deleted")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrNoFilesUploaded  = errors.New("no files uploaded")
	ErrInvalidImageName = errors.New("invalid image name")

	// Caption errors
	ErrEmptyCaption = errors.New("caption text is required")

	// Permission errors
	ErrInvalidHostToken = errors.New("invalid host token")
)
