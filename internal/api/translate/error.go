package translate

import (
	"ProjectFusion/pkg/response"
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest = response.NewError(http.StatusBadRequest, "invalid translate request")
	ErrEmptyResult    = errors.New("translator returned an empty result")
	ErrUnknownBackend = errors.New("unknown translation provider")
)
