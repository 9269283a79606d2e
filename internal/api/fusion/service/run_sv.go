package fusionService

import (
	"ProjectFusion/internal/api/fusion"
	"ProjectFusion/internal/entity"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/frameprocessor"
	"ProjectFusion/pkg/response"
	"ProjectFusion/pkg/sysres"
	"ProjectFusion/pkg/utils"
	"context"
	"fmt"
	"go/version"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Run swaps the face of source into target and writes the result to output.
// It returns the output path only when the result is a valid image.
func (s *fusionService) Run(ctx context.Context, sourcePath, targetPath, outputPath string) (string, error) {
	logger := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"component":  "fusion",
	})

	if err := s.admission.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.admission.Release(1)

	normalized, err := NormalizeOutputPath(sourcePath, targetPath, outputPath)
	if err != nil {
		logger.Warn(fusion.Wording("output_path_invalid"))
		return "", response.Wrap(fusion.ErrPreconditionFailed, err)
	}
	run := s.cfg.WithPaths(sourcePath, targetPath, normalized)

	sysres.LimitMemory(run.MaxMemory, s.log)

	modules, err := s.preCheck(ctx, logger, run)
	if err != nil {
		return "", response.Wrap(fusion.ErrPreconditionFailed, err)
	}

	if err := s.conditionalProcess(ctx, logger, run, modules); err != nil {
		return "", err
	}

	if !utils.IsImage(run.OutputPath) {
		return "", fusion.ErrOutputInvalid
	}

	return run.OutputPath, nil
}

func (s *fusionService) preCheck(ctx context.Context, logger *logrus.Entry, run entity.FusionConfig) ([]frameprocessor.FrameProcessor, error) {
	if current := s.runtimeVersion(); version.IsValid(current) && version.Compare(current, MinRuntimeVersion) < 0 {
		logger.Warn(fusion.Wording("runtime_not_supported", MinRuntimeVersion))
		return nil, fmt.Errorf("%w: %s", fusion.ErrRuntimeVersion, current)
	}

	if err := s.analyser.PreCheck(ctx); err != nil {
		logger.WithField("error", err.Error()).Warn(fusion.Wording("analyser_not_ready"))
		return nil, err
	}

	modules, err := s.registry.Modules(run.FrameProcessors)
	if err != nil {
		logger.WithField("error", err.Error()).Warn(fusion.Wording("frame_processor_not_ready", run.FrameProcessors))
		return nil, err
	}

	for _, module := range modules {
		if err := module.PreCheck(ctx); err != nil {
			logger.WithField("error", err.Error()).Warn(fusion.Wording("frame_processor_not_ready", module.Name()))
			return nil, fmt.Errorf("%s: %w", module.Name(), err)
		}
	}

	return modules, nil
}

func (s *fusionService) conditionalProcess(ctx context.Context, logger *logrus.Entry, run entity.FusionConfig, modules []frameprocessor.FrameProcessor) error {
	ctx = s.conditionalSetFaceReference(ctx, logger, run)

	for _, module := range modules {
		if err := module.PreProcess(ctx, run, frameprocessor.ModeOutput); err != nil {
			logger.WithField("error", err.Error()).Warn(fusion.Wording("frame_processor_failed", module.Name()))
			return response.Wrap(fusion.ErrPreProcessFailed, fmt.Errorf("%s: %w", module.Name(), err))
		}
	}

	if utils.IsImage(run.TargetPath) {
		return s.processImage(ctx, logger, run, modules)
	}

	return nil
}

// conditionalSetFaceReference attaches the reference face of the target to
// ctx when the selector mode needs one and none is set yet.
func (s *fusionService) conditionalSetFaceReference(ctx context.Context, logger *logrus.Entry, run entity.FusionConfig) context.Context {
	if !run.UsesReferenceFace() || frameprocessor.FaceReference(ctx) != nil || !utils.IsImage(run.TargetPath) {
		return ctx
	}

	face, err := s.analyser.GetOneFace(ctx, run.TargetPath, run.ReferenceFacePosition)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("No reference face found in target")
		return ctx
	}

	return frameprocessor.WithFaceReference(ctx, face)
}

func (s *fusionService) processImage(ctx context.Context, logger *logrus.Entry, run entity.FusionConfig, modules []frameprocessor.FrameProcessor) error {
	if err := copyFile(run.TargetPath, run.OutputPath); err != nil {
		return response.Wrap(fusion.ErrProcessFailed, err)
	}

	for _, module := range modules {
		logger.Info(fusion.Wording("processing", strings.ToUpper(module.Name())))

		if err := module.ProcessImage(ctx, run.SourcePath, run.OutputPath, run.OutputPath); err != nil {
			logger.WithField("error", err.Error()).Error(fusion.Wording("frame_processor_failed", module.Name()))
			if rmErr := os.Remove(run.OutputPath); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.WithField("error", rmErr.Error()).Warn("Failed to remove partial output")
			}
			return response.Wrap(fusion.ErrProcessFailed, fmt.Errorf("%s: %w", module.Name(), err))
		}

		module.PostProcess(ctx)
	}

	if utils.IsImage(run.OutputPath) {
		logger.Info(fusion.Wording("processing_image_succeed"))
	} else {
		logger.Warn(fusion.Wording("processing_image_failed"))
	}

	return nil
}

// copyFile copies src to dst keeping the permission bits and modification
// time of src.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
