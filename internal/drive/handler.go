package drive

import (
	"encoding/json"
	"net/http"

	"github.com/andresuchdata/inventory-analytics/internal/pipeline"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	source   Source
	importer *Importer
}

func NewHandler(source Source, importer *Importer) *Handler {
	return &Handler{
		source:   source,
		importer: importer,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/drive/files/download", h.DownloadFile).Methods("GET")
	router.HandleFunc("/api/drive/import", h.Import).Methods("POST")
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID, ok := h.resolveFolder(w, r, query.Get("folderId"), query.Get("path"))
	if !ok {
		return
	}

	files, err := h.source.ListFiles(r.Context(), folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []*File{}
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=ledger")

	if err := h.source.DownloadFile(r.Context(), fileID, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Import loads one file (fileId) or a whole folder (folderId or path) into the ledger store.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		report *pipeline.Report
		err    error
	)
	if fileID := query.Get("fileId"); fileID != "" {
		report, err = h.importer.ImportFile(r.Context(), fileID)
	} else {
		folderID, ok := h.resolveFolder(w, r, query.Get("folderId"), query.Get("path"))
		if !ok {
			return
		}
		if folderID == "" {
			http.Error(w, "fileId, folderId or path parameter is required", http.StatusBadRequest)
			return
		}
		report, err = h.importer.ImportFolder(r.Context(), folderID)
	}

	if err != nil {
		log.Error().Err(err).Msg("drive import failed")
		status := http.StatusInternalServerError
		if report != nil && report.RowsLoaded > 0 {
			status = http.StatusMultiStatus
		}
		writeJSON(w, status, importResponse("failed", report, err))
		return
	}

	writeJSON(w, http.StatusOK, importResponse("success", report, nil))
}

func (h *Handler) resolveFolder(w http.ResponseWriter, r *http.Request, folderID, path string) (string, bool) {
	if path == "" {
		return folderID, true
	}
	id, err := h.source.FindFolderByPath(r.Context(), path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return "", false
	}
	return id, true
}

func importResponse(status string, report *pipeline.Report, err error) map[string]interface{} {
	resp := map[string]interface{}{"status": status}
	if err != nil {
		resp["error"] = err.Error()
	}
	if report != nil {
		resp["files"] = report.Files
		resp["files_failed"] = report.FilesFailed
		resp["rows_loaded"] = report.RowsLoaded
		resp["failed"] = report.FailedReasons
		resp["duration_ms"] = report.Duration.Milliseconds()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
