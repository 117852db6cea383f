package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Image is metadata for an uploaded picture. The bytes live on disk under
// the room's images directory; StoredName is the timestamped on-disk name.
type Image struct {
	ID           string
	RoomID       string
	StoredName   string
	OriginalName string
	ContentType  string
	SizeBytes    int64
	UploadedAt   time.Time
	TrashedAt    *time.Time
}

// IsTrashed reports whether the image has been moved to the room trash.
// Trashed images keep their database row until purged so the file can be
// recovered by hand.
func (i *Image) IsTrashed() bool {
	return i.TrashedAt != nil
}

// allowedImageExts mirrors the upload filter of the host UI.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedImageName reports whether the filename carries an accepted image
// extension.
func AllowedImageName(name string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(name))]
}
