package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
)

// handleWebsocket upgrades the connection, sends the current state and then
// pushes a state message after every commit. Clients may send actions over
// the same connection.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Warn("websocket accept", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := s.hub.subscribe()
	s.metrics.subscribers.Set(float64(s.hub.count()))
	defer func() {
		s.hub.unsubscribe(sub.id)
		s.metrics.subscribers.Set(float64(s.hub.count()))
	}()

	s.send(ctx, conn, ServerMessage{Type: "session", Data: SessionData{SubscriberID: sub.id}})
	s.send(ctx, conn, ServerMessage{Type: "state", Data: s.View()})

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case view, ok := <-sub.views:
				if !ok {
					return
				}
				if err := wsjson.Write(ctx, conn, ServerMessage{Type: "state", Data: view}); err != nil {
					return
				}
			}
		}
	}()

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				s.logger.Debug("websocket closed", slog.Int("status", int(status)))
			}
			return
		}

		switch msg.Type {
		case "action":
			s.handleSocketAction(ctx, conn, msg)
		case "ping":
			s.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			s.send(ctx, conn, ServerMessage{
				Type:      "error",
				RequestID: msg.ID,
				Data:      ErrorData{Code: "unknown_type", Message: "unknown message type: " + msg.Type},
			})
		}
	}
}

func (s *Server) handleSocketAction(ctx context.Context, conn *websocket.Conn, msg ClientMessage) {
	var action editor.Action
	if err := json.Unmarshal(msg.Data, &action); err != nil {
		s.send(ctx, conn, ServerMessage{Type: "error", RequestID: msg.ID, Data: ErrorData{Code: "invalid_data", Message: err.Error()}})
		return
	}
	if _, err := s.Apply(ctx, action); err != nil {
		s.send(ctx, conn, ServerMessage{Type: "error", RequestID: msg.ID, Data: ErrorData{Code: codeFor(err), Message: err.Error()}})
		return
	}
	s.send(ctx, conn, ServerMessage{Type: "ack", RequestID: msg.ID})
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		s.logger.Debug("websocket write", slog.String("error", err.Error()))
	}
}
