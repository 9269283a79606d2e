package fusion

import "fmt"

var wording = map[string]string{
	"runtime_not_supported":     "go runtime not supported, please upgrade to %s or higher",
	"output_path_invalid":       "output path is invalid",
	"analyser_not_ready":        "face analyser is not ready",
	"frame_processor_not_ready": "frame processor %s is not ready",
	"frame_processor_failed":    "frame processor %s failed",
	"processing":                "processing %s",
	"processing_image_succeed":  "processing image succeed",
	"processing_image_failed":   "processing image failed",
}

// Wording returns the status message for key, formatted with args.
func Wording(key string, args ...any) string {
	msg, ok := wording[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
