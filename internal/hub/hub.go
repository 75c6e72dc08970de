package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/nfarrow/partyrounds-backend/internal/metrics"
	"github.com/nfarrow/partyrounds-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

// CreateResult carries either the new session or the construction error
// (empty playlist, missing factory) back to the caller.
type CreateResult struct {
	Session *session.Session
	Err     error
}

type CreateSession struct {
	Code   string
	Config session.Config
	Reply  chan CreateResult
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub owns the map of live sessions by join code. Like the sessions it
// manages, it is a single-goroutine actor fed through an inbox.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- CreateResult{Session: s}
					break
				}
				s, err := session.New(h.ctx, msg.Config)
				if err != nil {
					h.log.Error("session construction failed",
						zap.String("code", msg.Code), zap.Error(err))
					msg.Reply <- CreateResult{Err: err}
					break
				}
				h.sessions[msg.Code] = s
				metrics.SessionsCreated.Inc()
				h.log.Info("session created", zap.String("code", msg.Code))
				msg.Reply <- CreateResult{Session: s}

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					s.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.Code)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for code, s := range h.sessions {
		s.Inbox() <- session.Shutdown{}
		delete(h.sessions, code)
	}
	h.cancel()
}
