package ageService

import (
	"ProjectFusion/internal/api/age"
	"ProjectFusion/pkg/model"
	"ProjectFusion/pkg/redis"
	"ProjectFusion/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IAgeService interface {
	PredictAge(ctx context.Context, data []byte) age.Prediction
	Close() error
}

type ageService struct {
	log        *logrus.Logger
	classifier *model.Handle[Classifier]
	cache      redis.IRedis
	utils      utils.IUtils
}

func New(
	log *logrus.Logger,
	classifier *model.Handle[Classifier],
	cache redis.IRedis,
	utils utils.IUtils,
) IAgeService {
	return &ageService{
		log:        log,
		classifier: classifier,
		cache:      cache,
		utils:      utils,
	}
}

func (s *ageService) Close() error {
	return s.classifier.Close()
}
