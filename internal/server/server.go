// Package server exposes one editor session over HTTP. Actions are applied
// one at a time under a mutex, persisted after every commit and pushed to
// websocket subscribers as fresh state views.
package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/openapi"
)

// Persister saves a committed session.
type Persister interface {
	SaveSession(ctx context.Context, session *editor.Session) error
}

// Server owns the live session.
type Server struct {
	mu      sync.Mutex
	session *editor.Session

	store   Persister
	logger  *slog.Logger
	hub     *hub
	metrics *metrics
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithPersister saves the session after every commit.
func WithPersister(p Persister) Option {
	return func(s *Server) {
		s.store = p
	}
}

// WithLogger injects the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllowedOrigins sets the websocket origin patterns.
func WithAllowedOrigins(patterns ...string) Option {
	return func(s *Server) {
		s.origins = append([]string(nil), patterns...)
	}
}

// WithRegisterer registers the server metrics on reg instead of a private
// registry.
func WithRegisterer(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.metrics = newMetrics(reg)
		}
	}
}

// New wraps session. A nil session starts from the empty Root design.
func New(session *editor.Session, opts ...Option) *Server {
	if session == nil {
		session = editor.New()
	}
	s := &Server{
		session: session,
		logger:  slog.Default(),
		hub:     newHub(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.NewRegistry())
	}
	return s
}

// Session returns the current session.
func (s *Server) Session() *editor.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Apply dispatches action against the current session and commits the
// result. A failing action leaves the session untouched.
func (s *Server) Apply(ctx context.Context, action editor.Action) (editor.View, error) {
	return s.commit(ctx, action.Type, func(current *editor.Session) (*editor.Session, error) {
		return current.Dispatch(action)
	})
}

// Import replaces the design with an exported document.
func (s *Server) Import(ctx context.Context, ex editor.Exchange) (editor.View, error) {
	return s.commit(ctx, "import", func(current *editor.Session) (*editor.Session, error) {
		return current.Import(ex), nil
	})
}

// ImportOpenAPI adds the component schemas of an OpenAPI document as
// definitions and reports the names that were added.
func (s *Server) ImportOpenAPI(ctx context.Context, raw []byte) (editor.View, []string, error) {
	var added []string
	view, err := s.commit(ctx, "importOpenAPI", func(current *editor.Session) (*editor.Session, error) {
		defs, err := openapi.ImportComponents(ctx, raw, openapi.WithDefinitionsKey(current.DefinitionsKey()))
		if err != nil {
			return nil, err
		}
		next, names := current.ImportDefinitions(defs)
		added = names
		return next, nil
	})
	return view, added, err
}

// Export returns the export document of the current session.
func (s *Server) Export() editor.Exchange {
	return s.Session().Export()
}

// View returns the current read model.
func (s *Server) View() editor.View {
	return s.Session().View()
}

func (s *Server) commit(ctx context.Context, kind string, fn func(*editor.Session) (*editor.Session, error)) (editor.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.session)
	if err != nil {
		s.metrics.observe(kind, outcomeRejected)
		s.logger.Debug("action rejected", slog.String("type", kind), slog.String("error", err.Error()))
		return editor.View{}, err
	}
	if s.store != nil {
		if err := s.store.SaveSession(ctx, next); err != nil {
			s.metrics.observe(kind, outcomeFailed)
			s.logger.Error("persist session", slog.String("type", kind), slog.String("error", err.Error()))
			return editor.View{}, &persistError{err: err}
		}
	}
	s.session = next
	s.metrics.observe(kind, outcomeCommitted)
	s.logger.Debug("action committed", slog.String("type", kind))

	view := next.View()
	s.hub.broadcast(view)
	return view, nil
}

type persistError struct {
	err error
}

func (e *persistError) Error() string { return "server: persist session: " + e.err.Error() }
func (e *persistError) Unwrap() error { return e.err }

func isPersistError(err error) bool {
	var target *persistError
	return errors.As(err, &target)
}
