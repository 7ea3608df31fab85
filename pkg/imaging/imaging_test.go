package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelben/boutiq/pkg/imaging"
	"github.com/aurelben/boutiq/pkg/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newNormalizer(t *testing.T) *imaging.Normalizer {
	t.Helper()
	disk := storage.NewLocalDisk(t.TempDir(), "http://localhost:8080/storage")
	return imaging.New(disk, "uploads")
}

func TestNormalizeRoundTrip(t *testing.T) {
	n := newNormalizer(t)

	ref, err := n.Normalize(pngBytes(t), "summer dress.png")
	require.NoError(t, err)
	assert.Equal(t, "summer_dress.jpg", ref)

	stored, err := n.Open(ref)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestNormalizeAcceptsJPEGInput(t *testing.T) {
	n := newNormalizer(t)

	src, _, err := image.Decode(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	ref, err := n.Normalize(buf.Bytes(), "lookbook.JPG")
	require.NoError(t, err)
	assert.Equal(t, "lookbook.jpg", ref)
}

func TestNormalizeCorruptDataFails(t *testing.T) {
	n := newNormalizer(t)

	_, err := n.Normalize([]byte("definitely not an image"), "broken.png")
	assert.ErrorIs(t, err, imaging.ErrAsset)
}

func TestNormalizeRejectsUnusableNames(t *testing.T) {
	n := newNormalizer(t)

	_, err := n.Normalize(pngBytes(t), "@@@")
	assert.ErrorIs(t, err, imaging.ErrAsset)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":             "photo.png",
		"../../etc/passwd":      "passwd",
		"..\\..\\win\\boot.ini": "boot.ini",
		"robe d'été.jpg":        "robe_dt.jpg",
		"  spaced out .png":     "spaced_out_.png",
		"":                      "",
		"...":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, imaging.SanitizeFilename(in), "input %q", in)
	}
}
