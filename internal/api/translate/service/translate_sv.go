package translateService

import (
	"ProjectFusion/internal/api/translate"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/nlp"
	"ProjectFusion/pkg/redis"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const englishCode = "en"

func (s *translateService) Translate(ctx context.Context, text string) translate.Result {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()
	defer func() {
		s.log.WithField("request_id", requestID).Infof("Translate time: %.2f seconds", time.Since(start).Seconds())
	}()

	normalized := nlp.Normalize(text)

	key := cacheKey(normalized)
	if cached, ok := s.cached(ctx, key); ok {
		s.log.WithField("request_id", requestID).Debug("Translation served from cache")
		return cached
	}

	lang, err := s.detector.Detect(ctx, normalized)
	if err != nil {
		return s.fallback(requestID, text, "", err)
	}

	if lang == englishCode {
		return translate.Result{Text: text, Source: lang}
	}

	translator, err := s.translator.Get(ctx)
	if err != nil {
		return s.fallback(requestID, text, lang, err)
	}

	translated, err := translator.Translate(ctx, text, lang)
	if err != nil {
		return s.fallback(requestID, text, lang, err)
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		return s.fallback(requestID, text, lang, translate.ErrEmptyResult)
	}

	result := translate.Result{
		Text:       translated,
		Source:     lang,
		Translated: true,
	}
	s.store(ctx, key, result)

	return result
}

func (s *translateService) fallback(requestID, text, lang string, err error) translate.Result {
	s.log.WithFields(logrus.Fields{
		"request_id":      requestID,
		"source_language": lang,
		"error":           err.Error(),
	}).Warn("Translation failed, returning original prompt")

	return translate.Result{
		Text:     text,
		Source:   lang,
		Fallback: true,
		Reason:   err.Error(),
	}
}

func (s *translateService) cached(ctx context.Context, key string) (translate.Result, bool) {
	var result translate.Result
	if s.cache == nil {
		return result, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.log.WithField("error", err.Error()).Warn("Translation cache lookup failed")
		}
		return result, false
	}

	if err := jsoniter.UnmarshalFromString(raw, &result); err != nil {
		return result, false
	}
	return result, true
}

func (s *translateService) store(ctx context.Context, key string, result translate.Result) {
	if s.cache == nil {
		return
	}

	raw, err := jsoniter.MarshalToString(result)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, raw, s.cache.TTL()); err != nil {
		s.log.WithField("error", err.Error()).Warn("Translation cache write failed")
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "translate:" + hex.EncodeToString(sum[:])
}
