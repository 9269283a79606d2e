package translateService

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"ProjectFusion/internal/api/translate"
	"ProjectFusion/pkg/langdetect"
	"ProjectFusion/pkg/model"
	"ProjectFusion/pkg/redis"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	lang string
	err  error
}

func (d fakeDetector) Detect(ctx context.Context, text string) (string, error) {
	return d.lang, d.err
}

func (d fakeDetector) Close() error { return nil }

type fakeTranslator struct {
	calls int
	out   string
	err   error
}

func (t *fakeTranslator) Translate(ctx context.Context, text string, sourceLang string) (string, error) {
	t.calls++
	return t.out, t.err
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
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

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) TTL() time.Duration { return time.Hour }

func (c *memoryCache) Close() error { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newService(detector langdetect.IDetector, translator Translator, cache redis.IRedis) ITranslateService {
	return New(quietLogger(), detector, model.Ready[Translator]("fake", translator), cache)
}

func TestTranslateEnglishUnchanged(t *testing.T) {
	translator := &fakeTranslator{out: "should not be used"}
	svc := newService(fakeDetector{lang: "en"}, translator, nil)

	result := svc.Translate(context.Background(), "a cat wearing sunglasses")

	assert.Equal(t, "a cat wearing sunglasses", result.Text)
	assert.Equal(t, "en", result.Source)
	assert.False(t, result.Translated)
	assert.False(t, result.Fallback)
	assert.Zero(t, translator.calls)
}

func TestTranslateNonEnglish(t *testing.T) {
	translator := &fakeTranslator{out: "  a cat wearing sunglasses \n"}
	svc := newService(fakeDetector{lang: "es"}, translator, nil)

	input := "un gato con gafas de sol"
	result := svc.Translate(context.Background(), input)

	assert.NotEqual(t, input, result.Text)
	assert.Equal(t, "a cat wearing sunglasses", result.Text)
	assert.Equal(t, "es", result.Source)
	assert.True(t, result.Translated)
	assert.False(t, result.Fallback)
}

func TestTranslateFailureReturnsOriginal(t *testing.T) {
	input := "un gato con gafas de sol"

	cases := map[string]ITranslateService{
		"translator error": newService(fakeDetector{lang: "es"}, &fakeTranslator{err: errors.New("quota exceeded")}, nil),
		"empty output":     newService(fakeDetector{lang: "es"}, &fakeTranslator{out: "  "}, nil),
		"detector error":   newService(fakeDetector{err: langdetect.ErrUndetermined}, &fakeTranslator{out: "x"}, nil),
	}

	for name, svc := range cases {
		t.Run(name, func(t *testing.T) {
			result := svc.Translate(context.Background(), input)
			assert.Equal(t, input, result.Text)
			assert.True(t, result.Fallback)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestTranslateModelLoadFailure(t *testing.T) {
	handle := model.NewHandle("broken", func(ctx context.Context) (Translator, error) {
		return nil, errors.New("missing API key")
	})
	svc := New(quietLogger(), fakeDetector{lang: "fr"}, handle, nil)

	result := svc.Translate(context.Background(), "un chat")
	assert.Equal(t, "un chat", result.Text)
	assert.True(t, result.Fallback)
	assert.Equal(t, "missing API key", result.Reason)
}

func TestTranslateCacheHitSkipsModel(t *testing.T) {
	translator := &fakeTranslator{out: "a dog"}
	cache := newMemoryCache()
	svc := newService(fakeDetector{lang: "de"}, translator, cache)

	first := svc.Translate(context.Background(), "ein Hund")
	second := svc.Translate(context.Background(), "ein Hund")

	require.Equal(t, 1, translator.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, translate.Result{Text: "a dog", Source: "de", Translated: true}, second)
}

func TestTranslateFallbackNotCached(t *testing.T) {
	translator := &fakeTranslator{err: errors.New("timeout")}
	cache := newMemoryCache()
	svc := newService(fakeDetector{lang: "de"}, translator, cache)

	svc.Translate(context.Background(), "ein Hund")
	svc.Translate(context.Background(), "ein Hund")

	assert.Equal(t, 2, translator.calls)
	assert.Empty(t, cache.data)
}

func TestNewTranslatorHandleUnknownProvider(t *testing.T) {
	handle := NewTranslatorHandle("deepl")

	_, err := handle.Get(context.Background())
	assert.ErrorIs(t, err, translate.ErrUnknownBackend)
}
