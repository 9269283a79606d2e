package fusionService

import (
	"ProjectFusion/internal/api/fusion"
	"ProjectFusion/internal/entity"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/response"
	"context"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// RunUpload runs the pipeline on uploaded images. The result is stored in the
// file store under a name reserved before processing starts.
func (s *fusionService) RunUpload(ctx context.Context, source, target []byte, format filestore.Format) (entity.OutputFile, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(source) == 0 || len(target) == 0 {
		return entity.OutputFile{}, fusion.ErrMissingImages
	}

	workspace, err := os.MkdirTemp("", "fusion-*")
	if err != nil {
		return entity.OutputFile{}, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	sourcePath, err := stage(workspace, "source", source)
	if err != nil {
		return entity.OutputFile{}, err
	}
	targetPath, err := stage(workspace, "target", target)
	if err != nil {
		return entity.OutputFile{}, err
	}

	filename, err := s.store.Create(format)
	if err != nil {
		return entity.OutputFile{}, fmt.Errorf("failed to reserve output file: %w", err)
	}

	outputFile, err := s.runInto(ctx, filename, sourcePath, targetPath, workspace)
	if err != nil {
		s.store.Delete(filename)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"filename":   filename,
			"error":      err.Error(),
		}).Warn("Fusion run failed, reserved output released")
		return entity.OutputFile{}, err
	}

	return outputFile, nil
}

func (s *fusionService) runInto(ctx context.Context, filename, sourcePath, targetPath, workspace string) (entity.OutputFile, error) {
	outputPath, err := s.Run(ctx, sourcePath, targetPath, workspace)
	if err != nil {
		return entity.OutputFile{}, err
	}

	img, err := imaging.Open(outputPath)
	if err != nil {
		return entity.OutputFile{}, response.Wrap(fusion.ErrOutputInvalid, err)
	}

	if err := s.store.Write(filename, img); err != nil {
		return entity.OutputFile{}, fmt.Errorf("failed to store output: %w", err)
	}

	return s.files.Register(ctx, filename)
}

// stage writes data into dir under name, with the extension of its sniffed
// content type.
func stage(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name+mimetype.Detect(data).Extension())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	return path, nil
}
