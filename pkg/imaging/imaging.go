// Package imaging normalises uploaded images into a single canonical
// web format before they are stored.
//
// Every accepted upload is decoded (JPEG, PNG, GIF or WebP), re-encoded as
// JPEG and written to the upload directory of a storage disk under a name
// derived from the sanitised original filename:
//
//	ref, err := imaging.New(storage.Use("local"), "uploads").
//	    Normalize(raw, "Photo Été.PNG")
//	// ref == "Photo_t.jpg", written to uploads/Photo_t.jpg
//
// A decode or encode failure is reported as an error wrapping ErrAsset so
// callers can degrade to "no image" instead of failing the whole operation.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/aurelben/boutiq/pkg/storage"
)

// ErrAsset marks a failure to decode or re-encode an upload.
var ErrAsset = errors.New("imaging: asset could not be processed")

// Ext is the canonical stored extension.
const Ext = ".jpg"

// jpegQuality balances size against artefacts for catalogue photos.
const jpegQuality = 80

// Normalizer converts uploads and writes them to one storage disk.
type Normalizer struct {
	disk storage.Disk
	dir  string
}

// New returns a Normalizer writing into dir on disk.
func New(disk storage.Disk, dir string) *Normalizer {
	return &Normalizer{disk: disk, dir: strings.Trim(dir, "/")}
}

// Normalize decodes raw, re-encodes it as JPEG and stores it under the
// sanitised original name with the canonical extension. It returns the
// stored filename (not the directory-qualified path).
//
// Two uploads with the same original name produce the same stored path;
// the last write wins at the filesystem level.
func (n *Normalizer) Normalize(raw []byte, originalName string) (string, error) {
	name := SanitizeFilename(originalName)
	if name == "" {
		return "", fmt.Errorf("%w: unusable filename %q", ErrAsset, originalName)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrAsset, name, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("%w: encode %s: %v", ErrAsset, name, err)
	}

	stored := strings.TrimSuffix(name, path.Ext(name)) + Ext
	if err := n.disk.Put(n.path(stored), buf.Bytes()); err != nil {
		return "", fmt.Errorf("imaging: store %s: %w", stored, err)
	}
	return stored, nil
}

// Open returns the stored bytes for a previously normalised reference.
func (n *Normalizer) Open(ref string) ([]byte, error) {
	return n.disk.Get(n.path(SanitizeFilename(ref)))
}

func (n *Normalizer) path(name string) string {
	if n.dir == "" {
		return name
	}
	return n.dir + "/" + name
}

// SanitizeFilename reduces name to a safe flat filename: path separators
// and traversal are stripped, spaces become underscores and anything
// outside [A-Za-z0-9_.-] is dropped.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._-")
	if out == "" || strings.Trim(out, ".") == "" {
		return ""
	}
	return out
}
