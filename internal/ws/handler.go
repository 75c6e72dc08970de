package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/nfarrow/partyrounds-backend/internal/engine"
	"github.com/nfarrow/partyrounds-backend/internal/hub"
	"github.com/nfarrow/partyrounds-backend/internal/session"
	"github.com/nfarrow/partyrounds-backend/internal/types"
)

func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := randID(6)

		s.Inbox() <- session.Join{ClientID: clientID, Name: r.URL.Query().Get("name"), Outbox: out}
		defer func() { s.Inbox() <- session.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				payload, _ := json.Marshal(types.SnapshotMessage(snap))
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (session.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			msg, ok := toSessionMsg(cm, clientID)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			s.Inbox() <- msg
		}
	}
}

func toSessionMsg(m types.ClientMessage, clientID string) (session.Msg, bool) {
	switch m.Type {
	case "RoundEnded":
		kind, ok := parseKind(m.Kind)
		if !ok {
			return nil, false
		}
		return session.RoundEnded{Kind: kind, Winner: engine.TeamID(m.Winner)}, true
	case "AssignTeam":
		if m.Team == "" {
			return nil, false
		}
		return session.AssignTeam{ClientID: clientID, Team: engine.TeamID(m.Team)}, true
	case "AddScore":
		if m.Team == "" {
			return nil, false
		}
		return session.AddScore{Team: engine.TeamID(m.Team), Points: m.Points}, true
	case "BeginSeries":
		return session.BeginSeries{}, true
	default:
		return nil, false
	}
}

func parseKind(kind string) (engine.RoundKind, bool) {
	switch k := engine.RoundKind(kind); k {
	case engine.KindJoin, engine.KindTutorial, engine.KindTransition,
		engine.KindScoreScreen, engine.KindSeriesEnd, engine.KindGameplay:
		return k, true
	default:
		return "", false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
