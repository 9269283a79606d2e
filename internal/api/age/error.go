package age

import (
	"ProjectFusion/pkg/response"
	"errors"
	"net/http"
)

const FallbackLabel = "20-26"

// Labels are the buckets of the ViT age classifier.
var Labels = []string{"0-2", "3-9", "10-19", "20-29", "30-39", "40-49", "50-59", "60-69", "more than 70"}

var (
	ErrNoImage        = response.NewError(http.StatusBadRequest, "an image file or image_base64 is required")
	ErrInvalidBase64  = response.NewError(http.StatusBadRequest, "image_base64 is not valid base64")
	ErrEmptyLabel     = errors.New("classifier returned no label")
	ErrUnknownLabel   = errors.New("classifier returned an unknown label")
	ErrUnknownBackend = errors.New("unknown age classifier provider")
)
