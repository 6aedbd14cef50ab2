package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withURLParam attaches a chi route context carrying one URL parameter.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func TestGetPathID(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectedID  int64
		expectedErr error
	}{
		{name: "valid id", value: "42", expectedID: 42},
		{name: "missing id", value: "", expectedErr: domain.ErrValidation},
		{name: "not a number", value: "abc", expectedErr: domain.ErrInvalidID},
		{name: "zero", value: "0", expectedErr: domain.ErrInvalidID},
		{name: "negative", value: "-3", expectedErr: domain.ErrInvalidID},
		{name: "overflow", value: "99999999999999999999", expectedErr: domain.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.value)

			id, err := getPathID(req, "id")

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

func TestHandlePathID_WritesBadRequest(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/cards/abc/progress", nil), "id", "abc")
	w := httptest.NewRecorder()

	_, ok := handlePathID(w, req, "id", testHandlerLogger(t))

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid word ID", decodeError(t, w).Error)
}
