package filestore

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ProjectFusion/pkg/utils"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRoot    = "./outputs/files"
	DefaultBaseURL = "http://127.0.0.1:8888/files/"
	dateLayout     = "2006-01-02"
)

var (
	ErrNotFound        = errors.New("output file not found")
	ErrInvalidFilename = errors.New("invalid output filename")
	ErrInvalidFormat   = errors.New("unsupported output format")
	ErrInvalidImage    = errors.New("invalid image data")
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat maps a request value onto a Format. Empty means PNG.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
}

func (f Format) Ext() string {
	if f == FormatWebP {
		return ".webp"
	}
	return ".png"
}

func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/png"
}

type IFileStore interface {
	Save(img image.Image, format Format) (string, error)
	SaveBytes(data []byte, format Format) (string, error)
	Create(format Format) (string, error)
	Write(filename string, img image.Image) error
	Delete(filename string) bool
	ReadBytes(filename string, format Format) ([]byte, error)
	ReadBase64(filename string, format Format) (string, error)
	Path(filename string) (string, error)
	URL(filename string) string
	Root() string
}

type fileStore struct {
	root    string
	baseURL string
	log     *logrus.Logger
	now     func() time.Time
}

// New creates the store rooted at root, creating the directory if needed.
func New(root, baseURL string, logger *logrus.Logger) (IFileStore, error) {
	if root == "" {
		root = DefaultRoot
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &fileStore{
		root:    abs,
		baseURL: baseURL,
		log:     logger,
		now:     time.Now,
	}, nil
}

// NewFromEnv reads OUTPUT_DIR and STATIC_SERVE_BASE_URL.
func NewFromEnv(logger *logrus.Logger) (IFileStore, error) {
	return New(os.Getenv("OUTPUT_DIR"), os.Getenv("STATIC_SERVE_BASE_URL"), logger)
}

func (s *fileStore) Root() string {
	return s.root
}

func (s *fileStore) newFilename(format Format) (string, string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", "", err
	}

	filename := filepath.Join(s.now().Format(dateLayout), id.String()+format.Ext())
	filePath := filepath.Join(s.root, filename)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", "", err
	}

	return filename, filePath, nil
}

func (s *fileStore) Save(img image.Image, format Format) (string, error) {
	if img == nil {
		return "", ErrInvalidImage
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, format); err != nil {
		return "", err
	}

	filename, filePath, err := s.newFilename(format)
	if err != nil {
		return "", fmt.Errorf("failed to prepare output file: %w", err)
	}

	if err := os.WriteFile(filePath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"component": "filestore",
		"filename":  filename,
		"format":    format,
		"size":      buf.Len(),
	}).Debug("Saved output file")

	return filename, nil
}

func (s *fileStore) SaveBytes(data []byte, format Format) (string, error) {
	img, err := decode(data)
	if err != nil {
		return "", err
	}
	return s.Save(img, format)
}

// Create reserves a new empty output file and returns its filename.
func (s *fileStore) Create(format Format) (string, error) {
	filename, filePath, err := s.newFilename(format)
	if err != nil {
		return "", fmt.Errorf("failed to prepare output file: %w", err)
	}

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to reserve output file: %w", err)
	}

	return filename, f.Close()
}

// Write encodes img into an existing output file, typically one reserved with
// Create. The format follows the filename extension.
func (s *fileStore) Write(filename string, img image.Image) error {
	if img == nil {
		return ErrInvalidImage
	}

	filePath, err := s.Path(filename)
	if err != nil {
		return err
	}

	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, format); err != nil {
		return err
	}

	if err := os.WriteFile(filePath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// Delete removes the file when it exists. Missing files, directories and
// removal failures are ignored; the result reports whether a file was removed.
func (s *fileStore) Delete(filename string) bool {
	filePath, err := s.resolve(filename)
	if err != nil {
		return false
	}

	info, err := os.Stat(filePath)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if err := os.Remove(filePath); err != nil {
		s.log.WithFields(logrus.Fields{
			"component": "filestore",
			"filename":  filename,
			"error":     err.Error(),
		}).Warn("Delete output file failed")
		return false
	}

	return true
}

func (s *fileStore) ReadBytes(filename string, format Format) ([]byte, error) {
	filePath, err := s.Path(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, format); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *fileStore) ReadBase64(filename string, format Format) (string, error) {
	data, err := s.ReadBytes(filename, format)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Path returns the absolute path of an existing regular output file.
func (s *fileStore) Path(filename string) (string, error) {
	filePath, err := s.resolve(filename)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotFound
	}

	return filePath, nil
}

func (s *fileStore) URL(filename string) string {
	return s.baseURL + strings.ReplaceAll(filename, `\`, "/")
}

func (s *fileStore) resolve(filename string) (string, error) {
	if filename == "" {
		return "", ErrInvalidFilename
	}
	local := filepath.FromSlash(strings.ReplaceAll(filename, `\`, "/"))
	if !filepath.IsLocal(local) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.root, local), nil
}

// decode checks the declared dimensions before allocating any pixels.
func decode(data []byte) (image.Image, error) {
	if err := utils.CheckDimensions(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

func encode(buf *bytes.Buffer, img image.Image, format Format) error {
	switch format {
	case "", FormatPNG:
		return png.Encode(buf, img)
	case FormatWebP:
		return nativewebp.Encode(buf, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// IsImage reports whether the stored file decodes as an image.
func IsImage(filePath string) bool {
	return utils.IsImage(filePath)
}
