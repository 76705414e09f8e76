package rest

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lintang-b-s/roadsim/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantText   string
	}{
		{
			name:       "unknown vertex",
			err:        server.NewErrorf(server.ErrNotFound, "vertex %d not found", 42),
			wantCode:   http.StatusNotFound,
			wantStatus: "Vertex or road not found.",
			wantText:   "vertex 42 not found",
		},
		{
			name:       "bad zoom",
			err:        server.NewErrorf(server.ErrBadParamInput, "zoom level must be positive"),
			wantCode:   http.StatusBadRequest,
			wantStatus: "Invalid road network request.",
			wantText:   "zoom level must be positive",
		},
		{
			name:       "simulation already running",
			err:        server.NewErrorf(server.ErrConflict, "traffic simulation is already running"),
			wantCode:   http.StatusConflict,
			wantStatus: "Traffic simulation state conflict.",
			wantText:   "traffic simulation is already running",
		},
		{
			name:       "engine failure hides cause",
			err:        server.WrapErrorf(errors.New("badger: closed"), server.ErrInternalServerError, "load zoom view"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "Road network engine error.",
			wantText:   "road network engine error",
		},
		{
			name:       "untyped error hides cause",
			err:        errors.New("badger: closed"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "Road network engine error.",
			wantText:   "road network engine error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, ok := RenderServiceError(tt.err).(*ErrResponse)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, resp.HTTPStatusCode)
			assert.Equal(t, tt.wantStatus, resp.StatusText)
			assert.Equal(t, tt.wantText, resp.ErrorText)
		})
	}
}
