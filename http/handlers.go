package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"slicealloc/pipeline"
)

// Allocator runs uploads through the loaded artifacts.
type Allocator interface {
	Run(input []byte) (*pipeline.Run, error)
	Lookup(id string) (*pipeline.Run, bool)
}

// Handlers carries the dependencies of the HTTP routes.
type Handlers struct {
	allocator Allocator
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
	maxUpload int64
}

// NewHandlers builds the route handlers. A nil gatherer disables /metrics.
func NewHandlers(allocator Allocator, gatherer prometheus.Gatherer, maxUpload int64, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{allocator: allocator, gatherer: gatherer, logger: logger, maxUpload: maxUpload}
}

func RegisterHandlers(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /allocate", h.handleUpload)
	mux.HandleFunc("GET /download/{id}", h.handleDownload)
	mux.HandleFunc("POST /api/allocate", h.handleAPIAllocate)
	mux.HandleFunc("GET /ws/allocate", h.handleWebSocket)
	mux.HandleFunc("GET /api/health", handleHealth)
	if h.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, pageData{})
}

func (h *Handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.renderPage(w, http.StatusBadRequest, pageData{})
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderPage(w, http.StatusRequestEntityTooLarge, pageData{
				Error: fmt.Sprintf("File exceeds the %d byte upload limit.", tooLarge.Limit),
			})
			return
		}
		h.renderPage(w, http.StatusBadRequest, pageData{Error: "Could not read upload: " + err.Error()})
		return
	}
	defer file.Close()

	if !strings.EqualFold(extension(header.Filename), ".csv") {
		h.renderPage(w, http.StatusBadRequest, pageData{
			Error: fmt.Sprintf("%s is not a CSV file.", header.Filename),
		})
		return
	}

	input, err := io.ReadAll(file)
	if err != nil {
		h.renderPage(w, http.StatusBadRequest, pageData{Error: "Could not read upload: " + err.Error()})
		return
	}

	run, err := h.allocator.Run(input)
	if err != nil {
		page := pageData{Filename: header.Filename, Error: "Error during prediction: " + err.Error()}
		// Show what was uploaded when it at least parses.
		if frame, perr := pipeline.ReadFrame(bytes.NewReader(input)); perr == nil {
			page.Input = newPreview(frame)
		}
		h.renderPage(w, http.StatusUnprocessableEntity, page)
		return
	}

	h.renderPage(w, http.StatusOK, newResultPage(header.Filename, run))
}

func (h *Handlers) handleDownload(w http.ResponseWriter, r *http.Request) {
	run, ok := h.allocator.Lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, "result not found or expired", http.StatusNotFound)
		return
	}
	writeResultCSV(w, run)
}

func (h *Handlers) handleAPIAllocate(w http.ResponseWriter, r *http.Request) {
	input, err := io.ReadAll(r.Body)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSONError(w, status, err)
		return
	}

	run, err := h.allocator.Run(input)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("X-Run-ID", run.ID)
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		payload, err := json.Marshal(run.Results)
		if err != nil {
			h.logger.Error("encode results", zap.String("run_id", run.ID), zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(append(payload, '\n'))
		return
	}
	writeResultCSV(w, run)
}

func writeResultCSV(w http.ResponseWriter, run *pipeline.Run) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pipeline.ResultFilename))
	w.Write(run.CSV)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i:]
}
