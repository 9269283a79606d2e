package filesService

import (
	filesRepository "ProjectFusion/internal/api/files/repository"
	"ProjectFusion/internal/entity"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/s3"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IFilesService interface {
	Save(ctx context.Context, data []byte, format filestore.Format) (entity.OutputFile, error)
	Register(ctx context.Context, filename string) (entity.OutputFile, error)
	ReadBytes(ctx context.Context, filename string, format filestore.Format) ([]byte, error)
	ReadBase64(ctx context.Context, filename string, format filestore.Format) (string, error)
	URL(filename string) string
	Delete(ctx context.Context, filename string) bool
	ListByDate(ctx context.Context, date time.Time) ([]entity.OutputFile, error)
}

type filesService struct {
	log    *logrus.Logger
	store  filestore.IFileStore
	mirror s3.ItfS3
	repo   filesRepository.Repository
}

// New builds the file service. mirror and repo are optional; without them
// outputs live on the local filesystem only.
func New(
	log *logrus.Logger,
	store filestore.IFileStore,
	mirror s3.ItfS3,
	repo filesRepository.Repository,
) IFilesService {
	return &filesService{
		log:    log,
		store:  store,
		mirror: mirror,
		repo:   repo,
	}
}
