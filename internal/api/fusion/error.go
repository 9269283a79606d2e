package fusion

import (
	"ProjectFusion/pkg/response"
	"errors"
	"net/http"
)

var (
	ErrPreconditionFailed = response.NewError(http.StatusServiceUnavailable, "fusion precondition failed")
	ErrPreProcessFailed   = response.NewError(http.StatusUnprocessableEntity, "fusion pre-process failed")
	ErrProcessFailed      = response.NewError(http.StatusBadGateway, "frame processing failed")
	ErrOutputInvalid      = response.NewError(http.StatusBadGateway, "fusion output is not a valid image")
	ErrMissingImages      = response.NewError(http.StatusBadRequest, "source and target images are required")
	ErrInvalidFormat      = response.NewError(http.StatusBadRequest, "format must be png or webp")

	ErrInvalidOutputPath = errors.New("output path is invalid")
	ErrRuntimeVersion    = errors.New("go runtime version not supported")
)
