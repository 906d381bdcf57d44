package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/alexanderramin/flowboard/internal/linking"
	"github.com/alexanderramin/flowboard/internal/repository"
	"github.com/julienschmidt/httprouter"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type flowSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TemplateID  string `json:"templateId"`
	Description string `json:"description,omitempty"`
	Nodes       int    `json:"nodes"`
	GroupID     string `json:"groupId,omitempty"`
}

type flowDetail struct {
	*domain.Flow
	Completed map[string]bool `json:"completed"`
	GroupID   string          `json:"groupId,omitempty"`
}

type propagateResponse struct {
	Updated []string       `json:"updated"`
	Skipped []linking.Skip `json:"skipped"`
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listFlows(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	flows, err := s.svc.Flows.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]flowSummary, 0, len(flows))
	for _, f := range flows {
		sum := flowSummary{
			ID:          f.ID,
			Name:        f.Name,
			TemplateID:  f.TemplateID,
			Description: f.Description,
			Nodes:       domain.CountNodes(f.Data),
		}
		if g, ok, err := s.svc.Flows.LinkGroup(r.Context(), f.ID); err == nil && ok {
			sum.GroupID = g.GroupID
		}
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getFlow(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := p.ByName("id")
	flow, err := s.svc.Flows.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	completion, err := s.svc.Flows.Completion(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	detail := flowDetail{Flow: flow, Completed: completion}
	if detail.Completed == nil {
		detail.Completed = map[string]bool{}
	}
	if g, ok, err := s.svc.Flows.LinkGroup(r.Context(), id); err == nil && ok {
		detail.GroupID = g.GroupID
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) exportFlow(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var cfg export.Config
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}
	board, err := s.svc.Export.Export(r.Context(), p.ByName("id"), cfg)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

func (s *Server) propagateFlow(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	res, err := s.svc.Flows.Propagate(r.Context(), p.ByName("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	out := propagateResponse{Updated: res.Updated, Skipped: res.Skipped}
	if out.Updated == nil {
		out.Updated = []string{}
	}
	if out.Skipped == nil {
		out.Skipped = []linking.Skip{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listBoards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var (
		boards []repository.BoardSummary
		err    error
	)
	if flowID := r.URL.Query().Get("flow"); flowID != "" {
		boards, err = s.svc.Boards.ListByFlow(r.Context(), flowID)
	} else {
		boards, err = s.svc.Boards.List(r.Context())
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	if boards == nil {
		boards = []repository.BoardSummary{}
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	board, err := s.svc.Boards.Get(r.Context(), p.ByName("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// fail maps a service error onto a status code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var exportErr *export.Error
	switch {
	case errors.As(err, &exportErr):
		status := http.StatusUnprocessableEntity
		if exportErr.Field != "" {
			status = http.StatusBadRequest
		}
		writeError(w, status, errorBody{Code: string(exportErr.Code), Field: exportErr.Field, Message: exportErr.Message})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, errorBody{Message: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, errorBody{Message: err.Error()})
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, body)
}
