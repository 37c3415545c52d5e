// Package images stores uploaded product pictures and avatars.
package images

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/artshop/internal/apperr"
)

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store saves an upload and returns the URL it is served from.
type Store interface {
	Save(ctx context.Context, up Upload) (string, error)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// CheckUpload rejects anything that is not a small image.
func CheckUpload(up Upload, maxSize int64) error {
	if _, ok := extensions[mediaType(up.ContentType)]; !ok {
		return apperr.Invalid("image", "image must be a jpeg, png, gif or webp file")
	}
	if maxSize > 0 && up.Size > maxSize {
		return apperr.Invalid("image", fmt.Sprintf("image must be at most %d bytes", maxSize))
	}
	return nil
}

// objectName derives the extension from the checked content type. The
// client's filename never reaches the stored name.
func objectName(up Upload) string {
	ext := extensions[mediaType(up.ContentType)]
	d := time.Now().UTC()
	return fmt.Sprintf("%d/%02d/%s%s", d.Year(), d.Month(), uuid.NewString(), ext)
}

func mediaType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
}
