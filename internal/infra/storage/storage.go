package storage

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// BlobStore keeps uploaded post images and serves them from public URLs.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

// Images is nil until main configures a bucket.
var Images BlobStore

const imagePrefix = "images/"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ImageKey returns a unique object key that keeps a readable trace of the
// uploaded file name.
func ImageKey(filename string) string {
	return imagePrefix + uuid.NewString() + "-" + sanitizeFilename(filename)
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "image"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}
