package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/openapi"
)

const maxBodyBytes = 8 << 20

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the designer routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.View())
		})
		r.Get("/actions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, editor.ActionTypes())
		})
		r.Post("/actions", s.handleAction)
		r.Get("/export", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.Export())
		})
		r.Post("/import", s.handleImport)
		r.Post("/import/openapi", s.handleImportOpenAPI)
		r.Get("/ws", s.handleWebsocket)
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var action editor.Action
	if err := decodeBody(r, &action); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := s.Apply(r.Context(), action)
	if err != nil {
		writeError(w, statusFor(err), codeFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var ex editor.Exchange
	if err := decodeBody(r, &ex); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := s.Import(r.Context(), ex)
	if err != nil {
		writeError(w, statusFor(err), codeFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type openAPIImportResponse struct {
	Added []string    `json:"added"`
	State editor.View `json:"state"`
}

func (s *Server) handleImportOpenAPI(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, added, err := s.ImportOpenAPI(r.Context(), raw)
	if err != nil {
		writeError(w, statusFor(err), codeFor(err), err)
		return
	}
	if added == nil {
		added = []string{}
	}
	writeJSON(w, http.StatusOK, openAPIImportResponse{Added: added, State: view})
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps editing failures onto HTTP statuses.
func statusFor(err error) int {
	var decodeErr *editor.DecodeError
	switch {
	case isPersistError(err):
		return http.StatusInternalServerError
	case errors.As(err, &decodeErr), errors.Is(err, editerr.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, editerr.ErrNameCollision):
		return http.StatusConflict
	case errors.Is(err, editerr.ErrPathNotFound):
		return http.StatusNotFound
	case editerr.Is(err, editerr.ErrInvalidMove, editerr.ErrInvalidName, editerr.ErrInvalidSegment, editerr.ErrDanglingReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, openapi.ErrNoComponents):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func codeFor(err error) string {
	var decodeErr *editor.DecodeError
	switch {
	case isPersistError(err):
		return "persist_failed"
	case errors.As(err, &decodeErr):
		return "invalid_payload"
	case errors.Is(err, editerr.ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, editerr.ErrNameCollision):
		return "name_collision"
	case errors.Is(err, editerr.ErrPathNotFound):
		return "path_not_found"
	case errors.Is(err, editerr.ErrInvalidMove):
		return "invalid_move"
	case errors.Is(err, editerr.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, editerr.ErrInvalidSegment):
		return "invalid_segment"
	case errors.Is(err, editerr.ErrDanglingReference):
		return "dangling_reference"
	default:
		return "rejected"
	}
}
