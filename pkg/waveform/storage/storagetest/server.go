// Package storagetest provides an in-process fake storage node for tests
// and examples. Uploads are held in memory and upload ids are
// content-addressed, so identical files always get identical ids.
package storagetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
	"github.com/waveform-audio/waveform-go/pkg/waveform/cidutil"
)

// Server is a fake storage node. Safe for concurrent use.
type Server struct {
	mu sync.Mutex

	httpServer *httptest.Server

	// uploads by id
	uploads map[string]*waveform.UploadResult

	// failures remaining to inject before uploads succeed again
	failRemaining int

	uploadCalls int
	editCalls   int
}

// NewServer starts a fake storage node.
func NewServer() *Server {
	s := &Server{uploads: make(map[string]*waveform.UploadResult)}

	r := chi.NewRouter()
	r.Post("/v1/uploads", s.handleUpload)
	r.Post("/v1/uploads/{id}", s.handleEdit)
	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the base URL of the fake node.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the fake node down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// FailNext makes the next n upload or edit requests fail with a 503.
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRemaining = n
}

// UploadCalls reports how many upload requests were received, including
// injected failures.
func (s *Server) UploadCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadCalls
}

// EditCalls reports how many edit requests were received.
func (s *Server) EditCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editCalls
}

func (s *Server) takeFailure() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemaining > 0 {
		s.failRemaining--
		return true
	}
	return false
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.uploadCalls++
	s.mu.Unlock()

	if s.takeFailure() {
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	template := r.FormValue("template")
	if template == "" {
		http.Error(w, "template is required", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "no file provided", http.StatusBadRequest)
		return
	}

	f, err := files[0].Open()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	id, err := cidutil.ComputeFileCID(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result := &waveform.UploadResult{
		ID:      id,
		Status:  "done",
		Results: resultsFor(template, id, r),
	}
	if template == "audio" {
		result.Probe = &waveform.ProbeInfo{Format: waveform.ProbeFormat{Duration: "1"}}
	}

	s.mu.Lock()
	s.uploads[id] = result
	s.mu.Unlock()

	writeJSON(w, result)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.editCalls++
	s.mu.Unlock()

	if s.takeFailure() {
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	s.mu.Lock()
	upload, ok := s.uploads[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "upload not found", http.StatusNotFound)
		return
	}

	var data map[string]string
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Re-processing produces a fresh preview variant keyed the way the real
	// node keys them: "320_preview|<start_seconds>".
	edited := &waveform.UploadResult{
		ID:      upload.ID,
		Status:  "done",
		Results: map[string]string{},
		Probe:   upload.Probe,
	}
	for k, v := range upload.Results {
		edited.Results[k] = v
	}
	if start, ok := data["preview_start_seconds"]; ok {
		edited.Results[fmt.Sprintf("320_preview|%s", start)] = uuid.NewString()
	}

	s.mu.Lock()
	s.uploads[id] = edited
	s.mu.Unlock()

	writeJSON(w, edited)
}

func resultsFor(template, id string, r *http.Request) map[string]string {
	switch template {
	case "audio":
		results := map[string]string{"320": id}
		if start := r.FormValue("preview_start_seconds"); start != "" {
			results[fmt.Sprintf("320_preview|%s", start)] = uuid.NewString()
		}
		return results
	default:
		if strings.HasPrefix(template, "img") {
			return map[string]string{"150x150": id, "480x480": id, "1000x1000": id}
		}
		return map[string]string{"original": id}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
