package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func writeFile(t *testing.T, name string, data []byte) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestIsImage(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsImage("image/png"))
	assert.True(IsImage("image/svg+xml"))
	assert.False(IsImage("text/plain"))
	assert.False(IsImage("imagepng"))
	assert.False(IsImage(""))
	assert.False(IsImage("application/image"))
}

func TestMimeTypeForPath(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("image/png", MimeTypeForPath("/tmp/cat.png"))
	assert.Equal("image/jpeg", MimeTypeForPath("Cat.JPG"))
	assert.Equal("image/webp", MimeTypeForPath("a.b.webp"))
	assert.Equal("text/plain", MimeTypeForPath("notes.txt"))
	assert.Equal("", MimeTypeForPath("README"))
	assert.Equal("", MimeTypeForPath("archive.xyz"))
}

func TestResolvePath(t *testing.T) {
	assert := assert.New(t)

	p := writeFile(t, "cat.PNG", pngBytes)
	item, err := ResolvePath(p)
	require.NoError(t, err)
	assert.Equal("image/png", item.MimeType)
	assert.Equal(pngBytes, item.Data)
	assert.Equal(p, item.Source)
}

func TestResolvePathRejects(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, "empty.png", nil)

	cases := map[string]string{
		"non-image":   filepath.Join(dir, "does-not-exist.txt"),
		"unknown-ext": filepath.Join(dir, "picture.xyz"),
		"no-ext":      filepath.Join(dir, "picture"),
		"missing":     filepath.Join(dir, "missing.png"),
		"empty":       empty,
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ResolvePath(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidMedia)
			var ime *InvalidMediaError
			require.True(t, errors.As(err, &ime))
			assert.Equal(t, p, ime.Source)
		})
	}

	// the mimetype is checked before the file is touched
	_, err := ResolvePath(filepath.Join(dir, "does-not-exist.txt"))
	assert.NotErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "text/plain")

	_, err = ResolvePath(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveBytesBinary(t *testing.T) {
	assert := assert.New(t)

	item, err := ResolveBytes(pngBytes, "")
	require.NoError(t, err)
	assert.Equal("image/png", item.MimeType)
	assert.Equal(SourceClipboard, item.Source)

	item, err = ResolveBytes(jpegBytes, "")
	require.NoError(t, err)
	assert.Equal("image/jpeg", item.MimeType)

	// an externally supplied type wins over sniffing
	item, err = ResolveBytes(pngBytes, "image/x-custom")
	require.NoError(t, err)
	assert.Equal("image/x-custom", item.MimeType)

	_, err = ResolveBytes(pngBytes, "application/octet-stream")
	assert.ErrorIs(err, ErrInvalidMedia)

	_, err = ResolveBytes([]byte{0x00, 0x13, 0x37, 0xfe, 0x99}, "")
	assert.ErrorIs(err, ErrInvalidMedia)

	_, err = ResolveBytes(nil, "image/png")
	assert.ErrorIs(err, ErrInvalidMedia)

	// PDF is valid UTF-8, but sniffs as a binary format
	_, err = ResolveBytes([]byte("%PDF-1.4\n%....\n1 0 obj\n"), "")
	assert.ErrorIs(err, ErrInvalidMedia)
	assert.Contains(err.Error(), "application/pdf")
}

func TestResolveBytesPath(t *testing.T) {
	assert := assert.New(t)

	p := writeFile(t, "copied.jpg", jpegBytes)

	item, err := ResolveBytes([]byte("  "+p+"\n"), "text/plain")
	require.NoError(t, err)
	assert.Equal("image/jpeg", item.MimeType)
	assert.Equal(jpegBytes, item.Data)
	assert.Equal(p, item.Source)

	item, err = ResolveBytes([]byte("file://"+p), "")
	require.NoError(t, err)
	assert.Equal(p, item.Source)

	_, err = ResolveBytes([]byte(p+"\n"+p), "")
	assert.ErrorIs(err, ErrInvalidMedia)

	_, err = ResolveBytes([]byte("just some words"), "")
	assert.ErrorIs(err, ErrInvalidMedia)

	_, err = ResolveBytes([]byte("   \n"), "")
	assert.ErrorIs(err, ErrInvalidMedia)
}

func TestCheckImage(t *testing.T) {
	assert.NoError(t, Item{MimeType: "image/gif", Source: "a.gif"}.CheckImage())
	assert.ErrorIs(t, Item{MimeType: "video/mp4", Source: "a.mp4"}.CheckImage(), ErrInvalidMedia)
	assert.ErrorIs(t, Item{Source: "x"}.CheckImage(), ErrInvalidMedia)
}
