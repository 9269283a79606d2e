// Package frameprocessor defines the plugin contract of the fusion pipeline
// and the registry resolving processor names to loaded modules.
package frameprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ProjectFusion/internal/entity"
)

const (
	FaceSwapper  = "face_swapper"
	FaceEnhancer = "face_enhancer"

	// ModeOutput is the pre-process stage run before writing an output file.
	ModeOutput = "output"
)

var (
	ErrUnknownProcessor = errors.New("unknown frame processor")
	ErrSourceNotImage   = errors.New("source is not an image")
	ErrInvalidOutput    = errors.New("output path is not writable")
)

// FrameProcessor transforms a single image. ProcessImage writes its result to
// outputPath, which may equal targetPath.
type FrameProcessor interface {
	Name() string
	PreCheck(ctx context.Context) error
	PreProcess(ctx context.Context, run entity.FusionConfig, mode string) error
	ProcessImage(ctx context.Context, sourcePath, targetPath, outputPath string) error
	PostProcess(ctx context.Context)
}

type FaceAnalyser interface {
	PreCheck(ctx context.Context) error
	GetOneFace(ctx context.Context, imagePath string, position int) (*entity.Face, error)
}

type Factory func(cfg entity.FusionConfig) (FrameProcessor, error)

// Registry builds each processor once and hands out the cached module.
type Registry struct {
	cfg       entity.FusionConfig
	mu        sync.Mutex
	factories map[string]Factory
	loaded    map[string]FrameProcessor
}

func NewRegistry(cfg entity.FusionConfig) *Registry {
	return &Registry{
		cfg:       cfg,
		factories: make(map[string]Factory),
		loaded:    make(map[string]FrameProcessor),
	}
}

func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = factory
	delete(r.loaded, name)
}

// Modules resolves names in order.
func (r *Registry) Modules(names []string) ([]FrameProcessor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	modules := make([]FrameProcessor, 0, len(names))
	for _, name := range names {
		if module, ok := r.loaded[name]; ok {
			modules = append(modules, module)
			continue
		}

		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, name)
		}

		module, err := factory(r.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load frame processor %s: %w", name, err)
		}

		r.loaded[name] = module
		modules = append(modules, module)
	}

	return modules, nil
}

type referenceKey struct{}

// WithFaceReference attaches the run's reference face to ctx.
func WithFaceReference(ctx context.Context, face *entity.Face) context.Context {
	return context.WithValue(ctx, referenceKey{}, face)
}

func FaceReference(ctx context.Context) *entity.Face {
	face, _ := ctx.Value(referenceKey{}).(*entity.Face)
	return face
}
