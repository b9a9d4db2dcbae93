package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/five82/daylog/internal/logstore"
)

// envelope is the uniform response shape for every route.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Levels    any    `json:"levels,omitempty"`
	Partition string `json:"partition,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListPartitions()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: ids})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	s.serveRead(w, r, logstore.TodayID)
}

func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	s.serveRead(w, r, r.PathValue("date"))
}

func (s *Server) serveRead(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.store.Read(id, s.parseLines(r))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, logstore.ErrInvalidPartition) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      res.Lines,
		Levels:    res.Levels,
		Partition: res.Partition,
		Message:   res.Message,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: s.store.Faults()})
}

// parseLines reads ?lines=N. Missing or invalid values fall back to the
// store's default line count.
func (s *Server) parseLines(r *http.Request) int {
	def, _ := s.store.ReadLimits()
	raw := strings.TrimSpace(r.URL.Query().Get("lines"))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "err", err)
	}
	writeJSON(w, status, envelope{Success: false, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
