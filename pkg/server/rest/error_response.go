package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/roadsim/pkg/server"
)

// ErrResponse model info
//
//	@Description	error response of the road network api
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	ErrorText     string   `json:"error,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func newErrResponse(err error, code int, status string) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     status,
		ErrorText:      err.Error(),
	}
}

// ErrInvalidRequest bad coordinates, ids or body.
func ErrInvalidRequest(err error) render.Renderer {
	return newErrResponse(err, http.StatusBadRequest, "Invalid road network request.")
}

// ErrValidation request body rejected by the validator, one message per failed field.
func ErrValidation(err error, fieldErrs []string) render.Renderer {
	resp := newErrResponse(err, http.StatusBadRequest, "Invalid road network request.")
	resp.ErrValidation = fieldErrs
	return resp
}

// translateFieldErrors turns validator errors into english messages, e.g. "From is a required field".
func translateFieldErrors(err error, trans ut.Translator) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return msgs
}

func ErrNotFoundRend(err error) render.Renderer {
	return newErrResponse(err, http.StatusNotFound, "Vertex or road not found.")
}

func ErrConflictRend(err error) render.Renderer {
	return newErrResponse(err, http.StatusConflict, "Traffic simulation state conflict.")
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return newErrResponse(err, http.StatusInternalServerError, "Road network engine error.")
}

// serviceErrorMessage the part of a service error that is safe to send to a client.
func serviceErrorMessage(err error) string {
	var serr *server.Error
	switch {
	case errors.Is(err, server.ErrInternalServerError):
		return "road network engine error"
	case errors.As(err, &serr):
		return serr.Message()
	case errors.Is(err, server.ErrNotFound), errors.Is(err, server.ErrBadParamInput), errors.Is(err, server.ErrConflict):
		return err.Error()
	default:
		return "road network engine error"
	}
}

// RenderServiceError maps a service error code to its response. internal details are not sent to the client.
func RenderServiceError(err error) render.Renderer {
	msg := errors.New(serviceErrorMessage(err))
	switch {
	case errors.Is(err, server.ErrNotFound):
		return ErrNotFoundRend(msg)
	case errors.Is(err, server.ErrBadParamInput):
		return ErrInvalidRequest(msg)
	case errors.Is(err, server.ErrConflict):
		return ErrConflictRend(msg)
	default:
		return ErrInternalServerErrorRend(msg)
	}
}
