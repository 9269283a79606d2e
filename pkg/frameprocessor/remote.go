package frameprocessor

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"ProjectFusion/internal/entity"
	"ProjectFusion/pkg/utils"
	websocketPkg "ProjectFusion/pkg/websocket"

	"github.com/sirupsen/logrus"
)

type remoteProcessor struct {
	name        string
	model       string
	needsSource bool
	options     map[string]any
	client      websocketPkg.IInference
	log         *logrus.Logger
}

// RemoteFactory returns a factory for a processor executed by the inference
// service.
func RemoteFactory(name string, client websocketPkg.IInference, logger *logrus.Logger) Factory {
	return func(cfg entity.FusionConfig) (FrameProcessor, error) {
		p := &remoteProcessor{
			name:    name,
			options: cfg.ProcessorOptions(),
			client:  client,
			log:     logger,
		}

		switch name {
		case FaceSwapper:
			p.model = cfg.FaceSwapperModel
			p.needsSource = true
		case FaceEnhancer:
			p.model = cfg.FaceEnhancerModel
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, name)
		}

		return p, nil
	}
}

// NewDefaultRegistry registers the face swapper and enhancer against client.
func NewDefaultRegistry(cfg entity.FusionConfig, client websocketPkg.IInference, logger *logrus.Logger) *Registry {
	registry := NewRegistry(cfg)
	registry.Register(FaceSwapper, RemoteFactory(FaceSwapper, client, logger))
	registry.Register(FaceEnhancer, RemoteFactory(FaceEnhancer, client, logger))
	return registry
}

func (p *remoteProcessor) Name() string {
	return p.name
}

func (p *remoteProcessor) PreCheck(ctx context.Context) error {
	_, err := p.client.Call(ctx, websocketPkg.Request{
		Op:        websocketPkg.OpPreCheck,
		Processor: p.name,
		Model:     p.model,
	})
	return err
}

func (p *remoteProcessor) PreProcess(ctx context.Context, run entity.FusionConfig, mode string) error {
	if p.needsSource && !utils.IsImage(run.SourcePath) {
		return ErrSourceNotImage
	}

	if mode == ModeOutput {
		info, err := os.Stat(filepath.Dir(run.OutputPath))
		if run.OutputPath == "" || err != nil || !info.IsDir() {
			return ErrInvalidOutput
		}
	}

	return nil
}

func (p *remoteProcessor) ProcessImage(ctx context.Context, sourcePath, targetPath, outputPath string) error {
	req := websocketPkg.Request{
		Op:            websocketPkg.OpProcessImage,
		Processor:     p.name,
		Model:         p.model,
		Options:       p.options,
		ReferenceFace: FaceReference(ctx),
	}

	if p.needsSource {
		source, err := readBase64(sourcePath)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}
		req.Source = source
	}

	target, err := readBase64(targetPath)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}
	req.Target = target

	resp, err := p.client.Call(ctx, req)
	if err != nil {
		return err
	}

	data, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil || len(data) == 0 {
		return fmt.Errorf("%s returned no image", p.name)
	}

	return writeFileAtomic(outputPath, data)
}

func (p *remoteProcessor) PostProcess(ctx context.Context) {
	p.log.WithFields(logrus.Fields{
		"component": "frameprocessor",
		"processor": p.name,
	}).Debug("Frame processor finished")
}

type remoteAnalyser struct {
	model   string
	options map[string]any
	client  websocketPkg.IInference
}

func NewRemoteAnalyser(cfg entity.FusionConfig, client websocketPkg.IInference) FaceAnalyser {
	return &remoteAnalyser{
		model:   cfg.FaceDetectorModel,
		options: cfg.ProcessorOptions(),
		client:  client,
	}
}

func (a *remoteAnalyser) PreCheck(ctx context.Context) error {
	_, err := a.client.Call(ctx, websocketPkg.Request{
		Op:        websocketPkg.OpPreCheck,
		Processor: "face_analyser",
		Model:     a.model,
	})
	return err
}

func (a *remoteAnalyser) GetOneFace(ctx context.Context, imagePath string, position int) (*entity.Face, error) {
	image, err := readBase64(imagePath)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Call(ctx, websocketPkg.Request{
		Op:       websocketPkg.OpGetOneFace,
		Model:    a.model,
		Options:  a.options,
		Image:    image,
		Position: position,
	})
	if err != nil {
		return nil, err
	}

	return resp.Face, nil
}

func readBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// writeFileAtomic replaces path with data, keeping the permission bits of the
// file it replaces.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fusion-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
