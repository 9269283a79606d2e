package langdetect

import (
	"context"
	"errors"
	"strings"

	"ProjectFusion/pkg/model"

	"github.com/pemistahl/lingua-go"
)

var ErrUndetermined = errors.New("language could not be determined")

// IDetector returns the ISO 639-1 code (lowercase) of the text's language.
type IDetector interface {
	Detect(ctx context.Context, text string) (string, error)
	Close() error
}

type linguaDetector struct {
	handle *model.Handle[lingua.LanguageDetector]
}

// New returns a detector backed by lingua. The language models are loaded on
// the first Detect call, all of them up front to favour accuracy over memory.
func New() IDetector {
	return newDetector(lingua.NewLanguageDetectorBuilder().FromAllLanguages())
}

// NewFromLanguages restricts detection to the given languages.
func NewFromLanguages(languages ...lingua.Language) IDetector {
	return newDetector(lingua.NewLanguageDetectorBuilder().FromLanguages(languages...))
}

func newDetector(builder lingua.LanguageDetectorBuilder) IDetector {
	return &linguaDetector{
		handle: model.NewHandle("lingua", func(ctx context.Context) (lingua.LanguageDetector, error) {
			return builder.WithPreloadedLanguageModels().Build(), nil
		}),
	}
}

func (d *linguaDetector) Close() error {
	return d.handle.Close()
}

func (d *linguaDetector) Detect(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrUndetermined
	}

	detector, err := d.handle.Get(ctx)
	if err != nil {
		return "", err
	}

	language, ok := detector.DetectLanguageOf(text)
	if !ok {
		return "", ErrUndetermined
	}

	return strings.ToLower(language.IsoCode639_1().String()), nil
}
