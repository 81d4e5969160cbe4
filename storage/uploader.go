package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrStorageDisabled is returned when an upload is requested but no object
// store has been configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag,omitempty"`
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// TeamLogoKey builds a unique object key for a team logo.
func TeamLogoKey(teamID int, ext string) string {
	return path.Join("teams", fmt.Sprint(teamID), "logo", uuid.NewString()+normalizeExt(ext))
}

// StandingsExportKey builds a unique object key for a standings snapshot.
func StandingsExportKey(tournamentID int) string {
	return path.Join("tournaments", fmt.Sprint(tournamentID), "standings", uuid.NewString()+".json")
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtensionFromContentType maps the image types accepted for logos.
func ExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	}
	return "", fmt.Errorf("unsupported image content type: '%s'", contentType)
}
