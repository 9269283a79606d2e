package translateService

import (
	"ProjectFusion/internal/api/translate"
	"ProjectFusion/pkg/langdetect"
	"ProjectFusion/pkg/model"
	"ProjectFusion/pkg/redis"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

type ITranslateService interface {
	Translate(ctx context.Context, text string) translate.Result
	Close() error
}

type translateService struct {
	log        *logrus.Logger
	detector   langdetect.IDetector
	translator *model.Handle[Translator]
	cache      redis.IRedis
}

func New(
	log *logrus.Logger,
	detector langdetect.IDetector,
	translator *model.Handle[Translator],
	cache redis.IRedis,
) ITranslateService {
	return &translateService{
		log:        log,
		detector:   detector,
		translator: translator,
		cache:      cache,
	}
}

func (s *translateService) Close() error {
	return errors.Join(s.translator.Close(), s.detector.Close())
}
