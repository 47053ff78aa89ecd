package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/angeloszaimis/cantonese-split/internal/split"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    split.Kind `json:"kind"`
	Message string     `json:"message"`
	Key     string     `json:"key,omitempty"`
}

// errorResponse maps err to a status code and body. Internal errors get a
// generic message.
func errorResponse(err error) (int, ErrorResponse) {
	var se *split.Error
	if !errors.As(err, &se) {
		se = &split.Error{Kind: split.KindInternal, Err: err}
	}

	detail := ErrorDetail{Kind: se.Kind, Key: se.Key}
	if se.Err != nil {
		detail.Message = se.Err.Error()
	}

	status := http.StatusInternalServerError
	switch se.Kind {
	case split.KindBadRequest:
		status = http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
			detail.Message = "request body too large"
		}
	case split.KindAnalysisFailure:
		status = http.StatusUnprocessableEntity
	case split.KindUnavailable:
		status = http.StatusServiceUnavailable
		detail.Message = "server is busy or the request was cancelled"
	default:
		detail.Kind = split.KindInternal
		detail.Message = "internal server error"
	}

	return status, ErrorResponse{Error: detail}
}

func abortWithError(c *gin.Context, err error) int {
	status, body := errorResponse(err)
	c.AbortWithStatusJSON(status, body)
	return status
}
