package entity

import "strings"

// Padding is top, right, bottom, left in percent of the face box.
type Padding [4]int

// FusionConfig is the complete setting of one pipeline run. It is built once
// and copied per run; nothing mutates the shared value.
type FusionConfig struct {
	SourcePath string
	TargetPath string
	OutputPath string

	SkipDownload bool

	ExecutionProviders   []string
	ExecutionThreadCount int
	ExecutionQueueCount  int
	// MaxMemory is in GiB; zero disables the limit.
	MaxMemory            int

	FaceAnalyserOrder  string
	FaceAnalyserAge    string
	FaceAnalyserGender string
	FaceDetectorModel  string
	FaceDetectorSize   string
	FaceDetectorScore  float64

	FaceSelectorMode      string
	ReferenceFacePosition int
	ReferenceFaceDistance float64
	ReferenceFrameNumber  int
	FaceRecognizerModel   string
	FaceMaskBlur          float64
	FaceMaskPadding       Padding
	OutputImageQuality    int
	FrameProcessors       []string
	FaceSwapperModel      string
	FaceEnhancerModel     string
	FaceEnhancerBlend     int
}

// DefaultFusionConfig returns the fixed settings the pipeline runs with.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		SkipDownload:          false,
		ExecutionProviders:    []string{"cpu"},
		ExecutionThreadCount:  1,
		ExecutionQueueCount:   1,
		MaxMemory:             0,
		FaceAnalyserOrder:     "large-small",
		FaceDetectorModel:     "retinaface",
		FaceDetectorSize:      "640x640",
		FaceDetectorScore:     0.72,
		FaceSelectorMode:      "one",
		ReferenceFacePosition: 0,
		ReferenceFaceDistance: 0.6,
		ReferenceFrameNumber:  0,
		FaceRecognizerModel:   "arcface_inswapper",
		FaceMaskBlur:          0.3,
		FaceMaskPadding:       Padding{0, 0, 0, 0},
		OutputImageQuality:    100,
		FrameProcessors:       []string{"face_swapper", "face_enhancer"},
		FaceSwapperModel:      "inswapper_128",
		FaceEnhancerModel:     "gfpgan_1.4",
		FaceEnhancerBlend:     100,
	}
}

// WithPaths returns a copy of c bound to one run's files.
func (c FusionConfig) WithPaths(source, target, output string) FusionConfig {
	c.SourcePath = source
	c.TargetPath = target
	c.OutputPath = output
	c.ExecutionProviders = append([]string(nil), c.ExecutionProviders...)
	c.FrameProcessors = append([]string(nil), c.FrameProcessors...)
	return c
}

func (c FusionConfig) UsesReferenceFace() bool {
	return strings.Contains(c.FaceSelectorMode, "reference")
}

// ProcessorOptions are the settings forwarded to the inference service for a
// frame processor.
func (c FusionConfig) ProcessorOptions() map[string]any {
	return map[string]any{
		"execution_providers":     c.ExecutionProviders,
		"execution_thread_count":  c.ExecutionThreadCount,
		"face_analyser_order":     c.FaceAnalyserOrder,
		"face_analyser_age":       c.FaceAnalyserAge,
		"face_analyser_gender":    c.FaceAnalyserGender,
		"face_detector_model":     c.FaceDetectorModel,
		"face_detector_size":      c.FaceDetectorSize,
		"face_detector_score":     c.FaceDetectorScore,
		"face_selector_mode":      c.FaceSelectorMode,
		"reference_face_distance": c.ReferenceFaceDistance,
		"face_recognizer_model":   c.FaceRecognizerModel,
		"face_mask_blur":          c.FaceMaskBlur,
		"face_mask_padding":       c.FaceMaskPadding,
		"output_image_quality":    c.OutputImageQuality,
		"face_enhancer_blend":     c.FaceEnhancerBlend,
		"skip_download":           c.SkipDownload,
	}
}
