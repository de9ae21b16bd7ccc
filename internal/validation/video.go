package validation

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrPayloadTooLarge      = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedMediaType = errors.New("file type is not allowed")
)

// VideoConstraints defines validation rules for video uploads. The zero
// value rejects everything; instances are built from config.
type VideoConstraints struct {
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// NewVideoConstraints builds constraints from a list of bare extensions
// ("mp4", "mov", ...) and a byte ceiling.
func NewVideoConstraints(extensions []string, maxSize int64) VideoConstraints {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
		if ext != "" {
			allowed["."+ext] = true
		}
	}
	return VideoConstraints{AllowedExtensions: allowed, MaxSize: maxSize}
}

// ValidateType checks the original filename's extension against the
// allow-list and, when a content type was declared, that it is a video
// type. The filename is only inspected, never used as a path.
func (c VideoConstraints) ValidateType(filename, declaredType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !c.AllowedExtensions[ext] {
		return ErrUnsupportedMediaType
	}

	if declaredType != "" && !strings.HasPrefix(declaredType, "video/") {
		return ErrUnsupportedMediaType
	}

	return nil
}

// ValidateSize checks a declared size against the ceiling. A size of -1
// means unknown (streaming transport); that is allowed here and enforced
// during the write instead.
func (c VideoConstraints) ValidateSize(declaredSize int64) error {
	if declaredSize > c.MaxSize {
		return ErrPayloadTooLarge
	}
	return nil
}
