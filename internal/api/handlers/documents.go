package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rohankapur/finetune-studio/internal/document"
)

// maxUploadBytes caps extraction uploads at 20 MiB.
const maxUploadBytes = 20 << 20

type DocumentHandler struct{}

func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

// Extract pulls plain text out of an uploaded file so it can seed training
// pair inputs. Multipart field name is "file"; the type comes from the
// optional "file_type" field or the filename extension.
func (h *DocumentHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return
	}

	fileType := r.FormValue("file_type")
	if fileType == "" {
		fileType = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	}

	extraction, err := document.ExtractText(data, fileType)
	if err != nil {
		var extErr *document.ExtractionError
		if errors.As(err, &extErr) {
			writeError(w, http.StatusUnprocessableEntity, extErr.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extraction)
}

func (h *DocumentHandler) SupportedTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"supported": document.SupportedTypes()})
}
