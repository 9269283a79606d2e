package files

import (
	"ProjectFusion/pkg/response"
	"net/http"
)

var (
	ErrFileNotFound    = response.NewError(http.StatusNotFound, "output file not found")
	ErrInvalidFilename = response.NewError(http.StatusBadRequest, "invalid output filename")
	ErrInvalidFormat   = response.NewError(http.StatusBadRequest, "format must be png or webp")
	ErrInvalidImage    = response.NewError(http.StatusUnprocessableEntity, "file is not a valid image")
	ErrIndexDisabled   = response.NewError(http.StatusServiceUnavailable, "output file index is not enabled")
	ErrInternal        = response.NewError(http.StatusInternalServerError, "internal server error")
)
