package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huegroups/internal/groups"
	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
	"github.com/dokzlo13/huegroups/internal/ledger"
)

// listResponse wraps a group list
type listResponse struct {
	Groups []groups.CombinedGroup `json:"groups"`
	Count  int                    `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleListGroups(groupType groups.GroupType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.reader.ListGroups(r.Context(), groupType)
		if err != nil {
			s.writeGroupError(w, r, groupType, "", err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Groups: result, Count: len(result)})
	}
}

func (s *Server) handleGetGroup(groupType groups.GroupType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		result, err := s.reader.GetGroup(r.Context(), id, groupType)
		if err != nil {
			s.writeGroupError(w, r, groupType, id, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// writeGroupError maps an aggregation error to a response and records it.
func (s *Server) writeGroupError(w http.ResponseWriter, r *http.Request, groupType groups.GroupType, id string, err error) {
	requestID := requestIDFrom(r.Context())

	var (
		status    int
		code      string
		eventType ledger.EventType
		statusErr *v2.StatusError
	)
	switch {
	case errors.Is(err, groups.ErrNotFound):
		status, code, eventType = http.StatusNotFound, ErrCodeNotFound, ledger.EventGroupNotFound
	case errors.Is(err, groups.ErrInconsistent):
		status, code, eventType = http.StatusBadGateway, ErrCodeInconsistent, ledger.EventUpstreamInconsistency
	case errors.As(err, &statusErr):
		status, code, eventType = http.StatusBadGateway, ErrCodeBridge, ledger.EventAggregationFailed
	default:
		status, code, eventType = http.StatusInternalServerError, ErrCodeInternal, ledger.EventAggregationFailed
	}

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("request_id", requestID).
		Str("group_type", string(groupType)).
		Str("group", id).
		Int("status", status).
		Msg("Group request failed")

	if s.ledger != nil {
		payload := map[string]any{
			"group_type": string(groupType),
			"group":      id,
			"error":      err.Error(),
		}
		if lerr := s.ledger.Append(eventType, requestID, "api", payload); lerr != nil {
			log.Error().Err(lerr).Str("request_id", requestID).Msg("Failed to record failure")
		}
	}

	writeError(w, status, code, err.Error())
}
