package fusionService

import (
	filesService "ProjectFusion/internal/api/files/service"
	"ProjectFusion/internal/entity"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/frameprocessor"
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// MinRuntimeVersion is the oldest Go runtime the pipeline runs on.
const MinRuntimeVersion = "go1.22"

type IFusionService interface {
	Run(ctx context.Context, sourcePath, targetPath, outputPath string) (string, error)
	RunUpload(ctx context.Context, source, target []byte, format filestore.Format) (entity.OutputFile, error)
}

type fusionService struct {
	log            *logrus.Logger
	cfg            entity.FusionConfig
	analyser       frameprocessor.FaceAnalyser
	registry       *frameprocessor.Registry
	admission      *semaphore.Weighted
	store          filestore.IFileStore
	files          filesService.IFilesService
	runtimeVersion func() string
}

// New builds the pipeline driver. cfg is copied per run and never mutated.
// Concurrent runs are admitted up to cfg.ExecutionQueueCount.
func New(
	log *logrus.Logger,
	cfg entity.FusionConfig,
	analyser frameprocessor.FaceAnalyser,
	registry *frameprocessor.Registry,
	store filestore.IFileStore,
	files filesService.IFilesService,
) IFusionService {
	queue := int64(cfg.ExecutionQueueCount)
	if queue < 1 {
		queue = 1
	}

	return &fusionService{
		log:            log,
		cfg:            cfg,
		analyser:       analyser,
		registry:       registry,
		admission:      semaphore.NewWeighted(queue),
		store:          store,
		files:          files,
		runtimeVersion: runtime.Version,
	}
}
