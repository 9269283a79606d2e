package utils

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func fileHeader(t *testing.T, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="upload"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write(data)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["image"][0]
}

func TestReadImageFile(t *testing.T) {
	u := New()
	data := samplePNG(t)

	got, err := u.ReadImageFile(fileHeader(t, "image/png", data))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = u.ReadImageFile(fileHeader(t, "application/octet-stream", []byte("plain text")))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = u.ReadImageFile(fileHeader(t, "text/plain", data))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = u.ReadImageFile(nil)
	assert.ErrorIs(t, err, ErrNoFile)
}

// pngHeader returns a PNG that declares w×h pixels but carries no image data.
func pngHeader(w, h uint32) []byte {
	chunk := func(kind string, data []byte) []byte {
		out := binary.BigEndian.AppendUint32(nil, uint32(len(data)))
		body := append([]byte(kind), data...)
		out = append(out, body...)
		return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(body))
	}

	ihdr := binary.BigEndian.AppendUint32(nil, w)
	ihdr = binary.BigEndian.AppendUint32(ihdr, h)
	ihdr = append(ihdr, 8, 6, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = append(out, chunk("IHDR", ihdr)...)
	return append(out, chunk("IEND", nil)...)
}

func TestReadImageFileRejectsHugeDimensions(t *testing.T) {
	u := New()

	_, err := u.ReadImageFile(fileHeader(t, "image/png", pngHeader(60000, 60000)))
	assert.ErrorIs(t, err, ErrImageTooBig)
}

func TestCheckDimensions(t *testing.T) {
	assert.NoError(t, CheckDimensions(bytes.NewReader(samplePNG(t))))
	assert.NoError(t, CheckDimensions(bytes.NewReader(pngHeader(9459, 9459))))
	assert.ErrorIs(t, CheckDimensions(bytes.NewReader(pngHeader(9460, 9460))), ErrImageTooBig)
	assert.Error(t, CheckDimensions(bytes.NewReader([]byte("not an image"))))
}

func TestReadUploadTooLarge(t *testing.T) {
	u := &utils{maxFileSize: 4}

	_, err := u.ReadUpload(fileHeader(t, "image/png", samplePNG(t)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestIsImage(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.png")
	broken := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(valid, samplePNG(t), 0o644))
	require.NoError(t, os.WriteFile(broken, samplePNG(t)[:12], 0o644))

	assert.True(t, IsImage(valid))
	assert.False(t, IsImage(broken))
	assert.False(t, IsImage(dir))
	assert.False(t, IsImage(filepath.Join(dir, "missing.png")))

	assert.True(t, IsImageBytes(samplePNG(t)))
	assert.False(t, IsImageBytes(nil))
}

func TestHashBytesIsStable(t *testing.T) {
	u := New()
	assert.Equal(t, u.HashBytes([]byte("a")), u.HashBytes([]byte("a")))
	assert.NotEqual(t, u.HashBytes([]byte("a")), u.HashBytes([]byte("b")))
	assert.Len(t, u.HashBytes(nil), 64)
}

func TestNewULIDFromTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	id, err := New().NewULIDFromTimestamp(ts)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(ts), parsed.Time())
}
