package filesService

import (
	"ProjectFusion/internal/api/files"
	"ProjectFusion/internal/entity"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/response"
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *filesService) Save(ctx context.Context, data []byte, format filestore.Format) (entity.OutputFile, error) {
	filename, err := s.store.SaveBytes(data, format)
	if err != nil {
		return entity.OutputFile{}, mapStoreError(err)
	}

	return s.Register(ctx, filename)
}

// Register describes an output already written to the store and publishes it
// to the mirror and the index when they are configured.
func (s *filesService) Register(ctx context.Context, filename string) (entity.OutputFile, error) {
	requestID := contextPkg.GetRequestID(ctx)

	filePath, err := s.store.Path(filename)
	if err != nil {
		return entity.OutputFile{}, mapStoreError(err)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return entity.OutputFile{}, response.Wrap(files.ErrInternal, err)
	}

	filename = strings.ReplaceAll(filename, `\`, "/")
	format := strings.TrimPrefix(path.Ext(filename), ".")

	outputFile := entity.OutputFile{
		Filename:  filename,
		Format:    format,
		Size:      info.Size(),
		URL:       s.store.URL(filename),
		CreatedAt: info.ModTime(),
	}

	s.mirrorUpload(ctx, requestID, filePath, outputFile)
	s.indexInsert(ctx, requestID, outputFile)

	return outputFile, nil
}

func (s *filesService) ReadBytes(ctx context.Context, filename string, format filestore.Format) ([]byte, error) {
	data, err := s.store.ReadBytes(filename, format)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return data, nil
}

func (s *filesService) ReadBase64(ctx context.Context, filename string, format filestore.Format) (string, error) {
	data, err := s.store.ReadBase64(filename, format)
	if err != nil {
		return "", mapStoreError(err)
	}
	return data, nil
}

func (s *filesService) URL(filename string) string {
	return s.store.URL(filename)
}

// Delete removes the output everywhere it is known. It never fails; the
// result reports whether the local file existed and was removed.
func (s *filesService) Delete(ctx context.Context, filename string) bool {
	requestID := contextPkg.GetRequestID(ctx)

	deleted := s.store.Delete(filename)

	if s.mirror != nil {
		if err := s.mirror.DeleteFile(filename); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"filename":   filename,
				"error":      err.Error(),
			}).Warn("Failed to delete mirrored output")
		}
	}

	if s.repo != nil {
		client, err := s.repo.NewClient(false)
		if err == nil {
			err = client.OutputFiles.DeleteOutputFile(ctx, filename)
		}
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"filename":   filename,
				"error":      err.Error(),
			}).Warn("Failed to remove output from index")
		}
	}

	return deleted
}

func (s *filesService) ListByDate(ctx context.Context, date time.Time) ([]entity.OutputFile, error) {
	if s.repo == nil {
		return nil, files.ErrIndexDisabled
	}

	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, response.Wrap(files.ErrInternal, err)
	}

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	outputFiles, err := client.OutputFiles.ListOutputFilesByDate(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, response.Wrap(files.ErrInternal, err)
	}

	return outputFiles, nil
}

func (s *filesService) mirrorUpload(ctx context.Context, requestID, filePath string, outputFile entity.OutputFile) {
	if s.mirror == nil {
		return
	}

	data, err := os.ReadFile(filePath)
	if err == nil {
		contentType := filestore.FormatPNG.ContentType()
		if outputFile.Format == string(filestore.FormatWebP) {
			contentType = filestore.FormatWebP.ContentType()
		}
		_, err = s.mirror.UploadObject(ctx, outputFile.Filename, bytes.NewReader(data), contentType)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"filename":   outputFile.Filename,
			"error":      err.Error(),
		}).Warn("Failed to mirror output to object storage")
	}
}

func (s *filesService) indexInsert(ctx context.Context, requestID string, outputFile entity.OutputFile) {
	if s.repo == nil {
		return
	}

	client, err := s.repo.NewClient(false)
	if err == nil {
		err = client.OutputFiles.CreateOutputFile(ctx, outputFile)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"filename":   outputFile.Filename,
			"error":      err.Error(),
		}).Warn("Failed to index output file")
	}
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, filestore.ErrNotFound):
		return files.ErrFileNotFound
	case errors.Is(err, filestore.ErrInvalidFilename):
		return files.ErrInvalidFilename
	case errors.Is(err, filestore.ErrInvalidFormat):
		return files.ErrInvalidFormat
	case errors.Is(err, filestore.ErrInvalidImage):
		return response.Wrap(files.ErrInvalidImage, err)
	default:
		return response.Wrap(files.ErrInternal, err)
	}
}
