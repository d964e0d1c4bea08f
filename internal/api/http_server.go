package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"opensky-state-decoder/internal/buffer"
	"opensky-state-decoder/internal/decoder"
	"opensky-state-decoder/internal/metrics"
	"opensky-state-decoder/internal/model"
	"opensky-state-decoder/internal/processor"
	"opensky-state-decoder/pkg/logger"
)

// maxDecodeBody bounds the raw reply accepted by POST /decode.
const maxDecodeBody = 16 << 20

// Server represents the HTTP API server
type Server struct {
	logger        *logger.Logger
	metrics       *metrics.Metrics
	buffer        buffer.Buffer
	bufferType    string
	batchSize     int
	decodeLimiter *processor.RateLimiter
	latest        atomic.Pointer[model.Reply]
}

// NewServer creates a new HTTP server instance
func NewServer(log *logger.Logger, m *metrics.Metrics, buf buffer.Buffer, bufferType string, batchSize int) *Server {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Server{
		logger:     log,
		metrics:    m,
		buffer:     buf,
		bufferType: bufferType,
		batchSize:  batchSize,
	}
}

// WithDecodeLimiter throttles POST /decode.
func (s *Server) WithDecodeLimiter(rl *processor.RateLimiter) *Server {
	s.decodeLimiter = rl
	return s
}

// Accept stores a freshly decoded reply: its vehicles go to the buffer and the
// reply itself is served by /states/latest.
func (s *Server) Accept(reply *model.Reply) {
	if reply == nil {
		return
	}
	s.latest.Store(reply)
	if s.buffer != nil {
		s.buffer.PushAll(reply.Vehicles)
		s.metrics.SetBufferSize(s.buffer.Count())
	}
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/vehicles", s.handleVehicles)
	mux.HandleFunc("/vehicles/batch", s.handleVehiclesBatch)
	mux.HandleFunc("/buffer/stats", s.handleBufferStats)
	mux.HandleFunc("/states/latest", s.handleLatest)
	mux.HandleFunc("/decode", s.handleDecode)
}

// handleHealth returns the health status of the service
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}

	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"uptime":    s.metrics.GetUptime().String(),
	}
	if latest := s.latest.Load(); latest != nil && latest.CapturedAt != nil {
		response["last_capture"] = latest.CapturedAt.Unix()
	}

	s.writeJSON(w, r, http.StatusOK, response)
}

// handleVehicles returns all buffered state vectors
func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) || !s.requireBuffer(w, r) {
		return
	}

	response := map[string]interface{}{
		"vehicles":  s.buffer.GetAll(),
		"timestamp": time.Now().Unix(),
	}

	s.writeJSON(w, r, http.StatusOK, response)
}

// handleVehiclesBatch removes and returns a batch of state vectors
func (s *Server) handleVehiclesBatch(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) || !s.requireBuffer(w, r) {
		return
	}

	batchSize := s.batchSize
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		if n, err := parsePositiveInt(sizeStr); err == nil {
			batchSize = n
		}
	}

	vehicles := s.buffer.PopBatch(batchSize)
	s.metrics.SetBufferSize(s.buffer.Count())

	response := map[string]interface{}{
		"vehicles":   vehicles,
		"batch_size": batchSize,
		"timestamp":  time.Now().Unix(),
	}

	s.writeJSON(w, r, http.StatusOK, response)
}

// handleBufferStats returns buffer statistics
func (s *Server) handleBufferStats(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) || !s.requireBuffer(w, r) {
		return
	}

	stats := map[string]interface{}{
		"type":      s.bufferType,
		"count":     s.buffer.Count(),
		"capacity":  s.buffer.Capacity(),
		"is_empty":  s.buffer.IsEmpty(),
		"timestamp": time.Now().Unix(),
	}

	s.writeJSON(w, r, http.StatusOK, stats)
}

// handleLatest returns the most recent decoded reply
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}

	latest := s.latest.Load()
	if latest == nil {
		s.writeError(w, r, http.StatusNotFound, "no reply decoded yet")
		return
	}

	s.writeJSON(w, r, http.StatusOK, latest)
}

// handleDecode decodes a raw /states/all reply supplied in the request body
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodPost) {
		return
	}

	if s.decodeLimiter != nil && !s.decodeLimiter.Allow() {
		s.writeError(w, r, http.StatusTooManyRequests, "too many decode requests")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDecodeBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "reply too large")
			return
		}
		s.writeError(w, r, http.StatusBadRequest, "failed to read body")
		return
	}

	start := time.Now()
	reply, err := decoder.Decode(string(body))
	s.metrics.RecordDecode(reply, err, time.Since(start))
	if err != nil {
		s.logger.Debug("Rejected decode request: %v", err)
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, reply)
}

func (s *Server) allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	s.metrics.IncrementHTTPRequests(r.URL.Path)
	return true
}

func (s *Server) requireBuffer(w http.ResponseWriter, r *http.Request) bool {
	if s.buffer == nil {
		s.logger.Error("No buffer configured")
		s.writeError(w, r, http.StatusInternalServerError, "Buffer not available")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode %s response: %v", r.URL.Path, err)
		s.metrics.IncrementHTTPErrors(r.URL.Path)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Debug("Failed to write %s response: %v", r.URL.Path, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.metrics.IncrementHTTPErrors(r.URL.Path)
	s.writeJSON(w, r, status, map[string]string{"error": msg})
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive")
	}
	return n, nil
}
