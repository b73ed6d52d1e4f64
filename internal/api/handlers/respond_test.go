package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rohankapur/finetune-studio/internal/dataset"
	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/training"
	"github.com/rohankapur/finetune-studio/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        validate.Errorf("prompt is required"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing credential",
			err:        &provider.NoCredentialError{Provider: provider.Anthropic},
			wantStatus: http.StatusPreconditionFailed,
		},
		{
			name:       "upstream failure",
			err:        &provider.GenerationError{Provider: provider.OpenAI, Err: errors.New("timeout")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "not found, wrapped",
			err:        fmt.Errorf("session x: %w", training.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad status transition",
			err:        fmt.Errorf("session x is completed: %w", training.ErrInvalidTransition),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("pq: connection refused"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestExportOptions(t *testing.T) {
	t.Run("format and min quality", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/export?format=csv&min_quality=3", nil)

		opts, err := exportOptions(r)
		require.NoError(t, err)
		assert.Equal(t, dataset.FormatCSV, opts.Format)
		require.NotNil(t, opts.MinQuality)
		assert.Equal(t, 3, *opts.MinQuality)
	})

	t.Run("min quality optional", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/export?format=jsonl", nil)

		opts, err := exportOptions(r)
		require.NoError(t, err)
		assert.Nil(t, opts.MinQuality)
	})

	t.Run("format defaults to jsonl", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/export", nil)

		opts, err := exportOptions(r)
		require.NoError(t, err)
		assert.Equal(t, dataset.FormatJSONL, opts.Format)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/export?format=parquet", nil)

		_, err := exportOptions(r)
		var vErr *validate.Error
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("non-numeric min quality rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/export?format=jsonl&min_quality=high", nil)

		_, err := exportOptions(r)
		var vErr *validate.Error
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("out of range min quality rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/export?format=jsonl&min_quality=6", nil)

		_, err := exportOptions(r)
		var vErr *validate.Error
		require.ErrorAs(t, err, &vErr)
	})
}
