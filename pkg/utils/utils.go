package utils

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"ProjectFusion/pkg/response"

	_ "github.com/HugoSmits86/nativewebp"
	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var (
	ErrNoFile       = response.NewError(http.StatusBadRequest, "no file uploaded")
	ErrFileTooLarge = response.NewError(http.StatusRequestEntityTooLarge, "file size exceeds limit")
	ErrNotAnImage   = response.NewError(http.StatusUnsupportedMediaType, "uploaded file is not an image")
	ErrImageTooBig  = response.NewError(http.StatusRequestEntityTooLarge, "image dimensions exceed limit")
)

// MaxUploadSize bounds any single image payload, whether uploaded or sent as a
// websocket frame.
const MaxUploadSize int64 = 20 * 1024 * 1024

// MaxImagePixels caps the declared width×height of any image decoded by the
// service. Decoders allocate the full pixel buffer from the header alone.
const MaxImagePixels = 89_478_485

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
	ReadUpload(file *multipart.FileHeader) ([]byte, error)
	ReadImageFile(file *multipart.FileHeader) ([]byte, error)
	IsImage(path string) bool
	IsImageBytes(data []byte) bool
	HashBytes(data []byte) string
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: MaxUploadSize,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" && !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	return nil
}

// ReadUpload validates the declared size and type of an uploaded file and
// returns its content without inspecting it.
func (u *utils) ReadUpload(file *multipart.FileHeader) ([]byte, error) {
	if err := u.ValidateImageFile(file); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, u.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > u.maxFileSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}

// ReadImageFile is ReadUpload plus a content sniff, so the declared content
// type is never trusted.
func (u *utils) ReadImageFile(file *multipart.FileHeader) ([]byte, error) {
	data, err := u.ReadUpload(file)
	if err != nil {
		return nil, err
	}
	if !u.IsImageBytes(data) {
		return nil, ErrNotAnImage
	}
	if err := CheckDimensions(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return data, nil
}

// IsImage reports whether path is a regular file holding a decodable image.
func (u *utils) IsImage(path string) bool {
	return IsImage(path)
}

func (u *utils) IsImageBytes(data []byte) bool {
	return IsImageBytes(data)
}

func (u *utils) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func IsImage(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil || !strings.HasPrefix(mtype.String(), "image/") {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, _, err = image.DecodeConfig(f)
	return err == nil
}

func IsImageBytes(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return false
	}
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil
}

// CheckDimensions reads only the image header from r and rejects images whose
// declared pixel count exceeds MaxImagePixels.
func CheckDimensions(r io.Reader) error {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooBig, cfg.Width, cfg.Height)
	}
	return nil
}
