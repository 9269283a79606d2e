package ageService

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"ProjectFusion/internal/api/age"
	"ProjectFusion/pkg/model"
	"ProjectFusion/pkg/redis"
	"ProjectFusion/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	mu    sync.Mutex
	label string
	err   error
	calls int
	input []byte
}

func (c *fakeClassifier) Classify(ctx context.Context, png []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.input = png
	return c.label, c.err
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error { return nil }

func (c *memoryCache) TTL() time.Duration { return time.Hour }

func (c *memoryCache) Close() error { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newService(classifier Classifier, cache redis.IRedis) IAgeService {
	return New(quietLogger(), model.Ready[Classifier]("fake", classifier), cache, utils.New())
}

func TestPredictAgeMalformedBytes(t *testing.T) {
	classifier := &fakeClassifier{label: "30-39"}
	svc := newService(classifier, nil)

	prediction := svc.PredictAge(context.Background(), []byte("definitely not an image"))

	assert.Equal(t, "20-26", prediction.Label)
	assert.True(t, prediction.Fallback)
	assert.NotEmpty(t, prediction.Reason)
	assert.Zero(t, classifier.calls)
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

func TestPredictAgeHugeDimensionsFallsBack(t *testing.T) {
	classifier := &fakeClassifier{label: "30-39"}
	svc := newService(classifier, nil)

	prediction := svc.PredictAge(context.Background(), pngHeader(60000, 60000))

	assert.Equal(t, "20-26", prediction.Label)
	assert.True(t, prediction.Fallback)
	assert.Contains(t, prediction.Reason, "image dimensions exceed limit")
	assert.Zero(t, classifier.calls)
}

func TestPredictAgeResizesInput(t *testing.T) {
	classifier := &fakeClassifier{label: "30-39"}
	svc := newService(classifier, nil)

	prediction := svc.PredictAge(context.Background(), samplePNG(t, 640, 480))

	assert.Equal(t, age.Prediction{Label: "30-39"}, prediction)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(classifier.input))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 224, cfg.Width)
	assert.Equal(t, 224, cfg.Height)
}

func TestPredictAgeLabelSubstitution(t *testing.T) {
	svc := newService(&fakeClassifier{label: "10-19"}, nil)

	prediction := svc.PredictAge(context.Background(), samplePNG(t, 32, 32))

	assert.Equal(t, "17-19", prediction.Label)
	assert.False(t, prediction.Fallback)
}

func TestPredictAgeClassifierFailure(t *testing.T) {
	cases := map[string]Classifier{
		"error":       &fakeClassifier{err: errors.New("inference service unavailable")},
		"empty label": &fakeClassifier{label: " "},
	}

	for name, classifier := range cases {
		t.Run(name, func(t *testing.T) {
			prediction := newService(classifier, nil).PredictAge(context.Background(), samplePNG(t, 32, 32))
			assert.Equal(t, age.FallbackLabel, prediction.Label)
			assert.True(t, prediction.Fallback)
		})
	}
}

func TestPredictAgeModelLoadFailure(t *testing.T) {
	handle := model.NewHandle("broken", func(ctx context.Context) (Classifier, error) {
		return nil, errors.New("weights missing")
	})
	svc := New(quietLogger(), handle, nil, utils.New())

	prediction := svc.PredictAge(context.Background(), samplePNG(t, 32, 32))
	assert.Equal(t, age.FallbackLabel, prediction.Label)
	assert.Equal(t, "weights missing", prediction.Reason)
}

func TestPredictAgeCacheHitSkipsModel(t *testing.T) {
	classifier := &fakeClassifier{label: "40-49"}
	cache := &memoryCache{data: map[string]string{}}
	svc := newService(classifier, cache)

	data := samplePNG(t, 32, 32)
	first := svc.PredictAge(context.Background(), data)
	second := svc.PredictAge(context.Background(), data)

	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, first, second)
	assert.Len(t, cache.data, 1)
}

func TestMatchLabel(t *testing.T) {
	cases := map[string]string{
		"20-29":               "20-29",
		" 30-39.\n":           "30-39",
		"The person is 60-69": "60-69",
		"More than 70":        "more than 70",
		"probably 0-2 years":  "0-2",
	}

	for answer, want := range cases {
		got, err := matchLabel(answer)
		require.NoError(t, err, answer)
		assert.Equal(t, want, got, answer)
	}

	_, err := matchLabel("about thirty")
	assert.ErrorIs(t, err, age.ErrUnknownLabel)

	_, err = matchLabel("")
	assert.ErrorIs(t, err, age.ErrEmptyLabel)
}

func TestNewClassifierHandleWithoutInference(t *testing.T) {
	handle := NewClassifierHandle(ProviderInference, nil)

	_, err := handle.Get(context.Background())
	assert.Error(t, err)
}
