// Package archive stores screenshot images with a cloud provider and returns
// a stable link to them.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ScreenWatch/api/config"
)

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrNotConnected     = errors.New("archive backend not connected")
	ErrFolderNotFound   = errors.New("archive folder not found")
	ErrPermissionDenied = errors.New("archive permission denied")
)

// Object is an archived image.
type Object struct {
	ID  string
	URL string
}

// Archiver uploads image bytes under fileName.
type Archiver interface {
	Upload(ctx context.Context, data []byte, fileName string) (*Object, error)
}

// New returns the archiver selected by cfg.Archive.Backend.
func New(ctx context.Context, cfg *config.Config) (Archiver, error) {
	switch cfg.Archive.Backend {
	case "", "drive":
		return NewDriveArchiver(ctx, cfg)
	case "s3":
		return NewS3Archiver(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}

// FileName builds the stored name for a screenshot of deviceID taken at t.
func FileName(deviceID string, t time.Time) string {
	return fmt.Sprintf("screenshot_%d_%s.png", t.UnixMilli(), deviceID)
}

// UserMessage maps an archive error onto text that can be shown to a client.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConnected):
		return "Cloud storage is not connected. Please authenticate first."
	case errors.Is(err, ErrFolderNotFound):
		return "Upload folder not found. Check the configured folder id."
	case errors.Is(err, ErrPermissionDenied):
		return "Permission denied on the upload folder."
	case errors.Is(err, ErrEmptyImage):
		return "Empty image"
	default:
		return "Failed to archive screenshot"
	}
}
