package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/evcraddock/invest-compare/internal/auth"
	"github.com/evcraddock/invest-compare/internal/comparison"
	"github.com/evcraddock/invest-compare/internal/engine"
)

const maxBodyBytes = 1 << 20

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// validationResponse is the 400 body for rejected input.
type validationResponse struct {
	Error  string                  `json:"error"`
	Fields []comparison.FieldError `json:"fields,omitempty"`
}

// handleAPIComparisons routes /api/comparisons requests.
func (s *Server) handleAPIComparisons(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/comparisons")
	path = strings.TrimPrefix(path, "/")

	// /api/comparisons: history or create
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListComparisons(w, r)
		case http.MethodPost:
			s.apiCreateComparison(w, r)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// /api/comparisons/{id}/schedule
	if strings.HasSuffix(path, "/schedule") {
		id, ok := parseID(w, strings.TrimSuffix(path, "/schedule"))
		if ok {
			s.apiGetSchedule(w, r, id)
		}
		return
	}

	// /api/comparisons/{id}/chart.png
	if strings.HasSuffix(path, "/chart.png") {
		id, ok := parseID(w, strings.TrimSuffix(path, "/chart.png"))
		if ok {
			s.apiGetChart(w, r, id)
		}
		return
	}

	// /api/comparisons/{id}
	id, ok := parseID(w, path)
	if ok {
		s.apiGetComparison(w, r, id)
	}
}

func parseID(w http.ResponseWriter, s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		apiError(w, "invalid comparison ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// apiCreateComparison validates the input, runs the comparison and stores it.
func (s *Server) apiCreateComparison(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow(auth.ClientIP(r)) {
		apiError(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		apiError(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	in, err := comparison.ParseInput(body)
	if err != nil {
		s.writeCreateError(w, err)
		return
	}

	c, err := s.service.Create(r.Context(), in)
	if err != nil {
		s.writeCreateError(w, err)
		return
	}

	apiJSON(w, c, http.StatusCreated)
}

func (s *Server) writeCreateError(w http.ResponseWriter, err error) {
	var verr *comparison.ValidationError
	switch {
	case errors.As(err, &verr):
		apiJSON(w, validationResponse{Error: verr.Error(), Fields: verr.Fields}, http.StatusBadRequest)
	case errors.Is(err, engine.ErrInvalidInput):
		apiJSON(w, validationResponse{Error: err.Error()}, http.StatusBadRequest)
	default:
		s.log.Error("creating comparison", zap.Error(err))
		apiError(w, "creating comparison failed", http.StatusInternalServerError)
	}
}

// apiListComparisons returns the history, newest first.
func (s *Server) apiListComparisons(w http.ResponseWriter, r *http.Request) {
	opts := comparison.ListOptions{}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &opts.Limit},
		{"offset", &opts.Offset},
	} {
		v := r.URL.Query().Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apiError(w, p.name+" must be a non-negative integer", http.StatusBadRequest)
			return
		}
		*p.dst = n
	}

	list, err := s.service.History(r.Context(), opts)
	if err != nil {
		s.log.Error("listing comparisons", zap.Error(err))
		apiError(w, "listing comparisons failed", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*comparison.Comparison{}
	}

	apiJSON(w, list, http.StatusOK)
}

func (s *Server) apiGetComparison(w http.ResponseWriter, r *http.Request, id int64) {
	c, found, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.log.Error("loading comparison", zap.Int64("id", id), zap.Error(err))
		apiError(w, "loading comparison failed", http.StatusInternalServerError)
		return
	}
	if !found {
		apiError(w, "comparison not found", http.StatusNotFound)
		return
	}

	apiJSON(w, c, http.StatusOK)
}

func (s *Server) apiGetSchedule(w http.ResponseWriter, r *http.Request, id int64) {
	years, found, err := s.service.Schedule(r.Context(), id)
	if err != nil {
		s.log.Error("scheduling comparison", zap.Int64("id", id), zap.Error(err))
		apiError(w, "loading schedule failed", http.StatusInternalServerError)
		return
	}
	if !found {
		apiError(w, "comparison not found", http.StatusNotFound)
		return
	}

	apiJSON(w, years, http.StatusOK)
}

func (s *Server) apiGetChart(w http.ResponseWriter, r *http.Request, id int64) {
	png, found, err := s.service.Chart(r.Context(), id)
	if err != nil {
		s.log.Error("rendering chart", zap.Int64("id", id), zap.Error(err))
		apiError(w, "rendering chart failed", http.StatusInternalServerError)
		return
	}
	if !found {
		apiError(w, "comparison not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		s.log.Warn("writing chart", zap.Error(err))
	}
}
