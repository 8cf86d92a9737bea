package domain

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// MediaKind identifies which bucket and validation rules apply to an
// upload.
type MediaKind string

const (
	MediaEventImage    MediaKind = "event-image"
	MediaEventVideo    MediaKind = "event-video"
	MediaEventDocument MediaKind = "event-document"
	MediaAvatar        MediaKind = "avatar"
)

// Upload size ceilings in bytes.
const (
	MaxImageSize    = 5 * 1024 * 1024
	MaxVideoSize    = 500 * 1024 * 1024
	MaxDocumentSize = 10 * 1024 * 1024
)

// ValidateUpload checks MIME type prefix and byte-size ceiling for the
// given media kind before any storage call: images and avatars are
// image/* up to 5MB, videos video/* up to 500MB, documents PDF only up
// to 10MB. Returns a wrapped ErrInvalidInput on rejection.
func ValidateUpload(kind MediaKind, contentType string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch kind {
	case MediaEventImage, MediaAvatar:
		if !strings.HasPrefix(ct, "image/") {
			return fmt.Errorf("%w: file must be an image", ErrInvalidInput)
		}
		if size > MaxImageSize {
			return fmt.Errorf("%w: image exceeds 5MB", ErrInvalidInput)
		}
	case MediaEventVideo:
		if !strings.HasPrefix(ct, "video/") {
			return fmt.Errorf("%w: file must be a video", ErrInvalidInput)
		}
		if size > MaxVideoSize {
			return fmt.Errorf("%w: video exceeds 500MB", ErrInvalidInput)
		}
	case MediaEventDocument:
		if ct != "application/pdf" {
			return fmt.Errorf("%w: document must be a PDF", ErrInvalidInput)
		}
		if size > MaxDocumentSize {
			return fmt.Errorf("%w: document exceeds 10MB", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown media kind %q", ErrInvalidInput, kind)
	}
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	return nil
}

// ObjectStore defines the object storage port: upload by path and
// public URL resolution per media kind.
type ObjectStore interface {
	Upload(ctx context.Context, kind MediaKind, key, contentType string, body io.Reader, size int64) (url string, err error)
	Delete(ctx context.Context, kind MediaKind, key string) error
	PublicURL(kind MediaKind, key string) string
}
