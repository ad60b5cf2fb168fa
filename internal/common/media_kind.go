package common

import "strings"

// MediaKind classifies an uploaded attachment.
type MediaKind string

const (
	MediaKindImage    MediaKind = "image"
	MediaKindVideo    MediaKind = "video"
	MediaKindDocument MediaKind = "document"
)

func (k MediaKind) String() string {
	return string(k)
}

// DetectMediaKind maps a MIME type onto the coarse attachment kinds the
// messaging surface cares about.
func DetectMediaKind(mimeType string) MediaKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaKindImage
	case strings.HasPrefix(mimeType, "video/"):
		return MediaKindVideo
	default:
		return MediaKindDocument
	}
}
