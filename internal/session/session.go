package session

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nfarrow/partyrounds-backend/internal/engine"
	"github.com/nfarrow/partyrounds-backend/internal/metrics"
	"github.com/nfarrow/partyrounds-backend/internal/playlist"
)

var ErrNoFactory = errors.New("round factory required")

type Msg interface{ isSessionMsg() }

type Join struct {
	ClientID string
	Name     string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// AssignTeam moves a client out of the join lobby onto a side. Only
// assigned clients are re-registered against a promoted round's scoring.
type AssignTeam struct {
	ClientID string
	Team     engine.TeamID
}

func (AssignTeam) isSessionMsg() {}

// RoundEnded is the host runtime reporting that the active round finished.
type RoundEnded struct {
	Kind   engine.RoundKind
	Winner engine.TeamID
}

func (RoundEnded) isSessionMsg() {}

// AddScore is an explicit scoring call from game-mode logic.
type AddScore struct {
	Team   engine.TeamID
	Points int
}

func (AddScore) isSessionMsg() {}

// BeginSeries restarts the series from the join lobby: clients stay
// connected with their team assignments, all series bookkeeping is zeroed.
type BeginSeries struct{}

func (BeginSeries) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
	Current *RoundInfo
	Next    *RoundInfo
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
	Current    *RoundInfo
	Next       *RoundInfo
	Teams      map[string]engine.TeamID // clientID -> assigned team ("" = lobby)
}

// Config carries everything a session needs at construction. Collaborators
// are injected here, never reached for as ambient globals.
type Config struct {
	Entries     []playlist.Entry
	Shuffle     bool
	Tutorial    bool
	PointsToWin int
	Factory     RoundFactory
	Decider     Decider // defaults to PointsDecider{PointsToWin}
	Rand        *rand.Rand
	Log         *zap.Logger
}

type client struct {
	name   string
	team   engine.TeamID
	outbox chan Snapshot
}

// Session owns one series of rounds: the engine state, the shuffler, the
// current/next round slots, and the connected clients. All of it is touched
// only from the single loop goroutine.
type Session struct {
	inbox    chan Msg
	state    engine.State
	version  int
	clients  map[string]*client
	shuffler *playlist.Shuffler
	factory  RoundFactory
	decider  Decider
	current  *roundSlot
	next     *roundSlot
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// New validates the playlist, pulls and preloads the first next-round slot,
// and starts the session in the join phase. An empty playlist or missing
// factory is fatal here, before the session is usable.
func New(parent context.Context, cfg Config) (*Session, error) {
	if cfg.Factory == nil {
		return nil, ErrNoFactory
	}
	shuffler, err := playlist.NewShuffler(cfg.Entries, cfg.Shuffle, cfg.Rand)
	if err != nil {
		return nil, err
	}
	if cfg.Decider == nil {
		cfg.Decider = PointsDecider{PointsToWin: cfg.PointsToWin}
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:    make(chan Msg, 64),
		state:    engine.NewState(cfg.Tutorial),
		clients:  make(map[string]*client),
		shuffler: shuffler,
		factory:  cfg.Factory,
		decider:  cfg.Decider,
		log:      cfg.Log,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Stay one round ahead from the very start: the first playable round is
	// already loading while clients are still in the join lobby.
	s.next = s.pullRound()

	go s.loop()
	return s, nil
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				if old, ok := s.clients[msg.ClientID]; ok {
					// rejoin under the same ID replaces the old connection
					close(old.outbox)
				} else {
					metrics.ConnectedClients.Inc()
				}
				s.clients[msg.ClientID] = &client{name: msg.Name, outbox: msg.Outbox}
				select {
				case msg.Outbox <- s.snapshot():
					// ok
				default:
					// can't even take the join ack - drop immediately
					close(msg.Outbox)
					delete(s.clients, msg.ClientID)
					metrics.ConnectedClients.Dec()
				}

			case Leave:
				if _, ok := s.clients[msg.ClientID]; ok {
					delete(s.clients, msg.ClientID)
					metrics.ConnectedClients.Dec()
				}

			case AssignTeam:
				c := s.clients[msg.ClientID]
				if c == nil {
					break
				}
				c.team = msg.Team
				s.state = engine.SeedTeams(s.state, []engine.TeamID{msg.Team})
				s.version++
				s.broadcast(s.snapshot())

			case RoundEnded:
				s.handleRoundEnded(msg)

			case BeginSeries:
				_, ns, err := engine.Apply(s.state, engine.Command{Type: engine.CmdBeginSeries})
				if err != nil {
					s.log.Warn("rejected series restart", zap.Error(err))
					break
				}
				s.state = ns
				s.current = nil // back to the lobby; the next slot keeps preloading
				s.version++
				s.log.Info("series restarted")
				s.broadcast(s.snapshot())

			case AddScore:
				_, ns, err := engine.Apply(s.state, engine.Command{
					Type: engine.CmdAddScore, Team: msg.Team, Points: msg.Points,
				})
				if err != nil {
					s.log.Warn("rejected score", zap.String("team", string(msg.Team)), zap.Error(err))
					break
				}
				s.state = ns
				s.version++
				s.broadcast(s.snapshot())

			case GetState:
				teams := make(map[string]engine.TeamID, len(s.clients))
				for id, c := range s.clients {
					teams[id] = c.team
				}
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
					Current:    s.current.info(),
					Next:       s.next.info(),
					Teams:      teams,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleRoundEnded(msg RoundEnded) {
	cmd := engine.Command{Type: engine.CmdRoundEnded, Kind: msg.Kind, Winner: msg.Winner}
	if msg.Kind == engine.KindGameplay {
		cmd.Verdict = s.decider.Decide(s.state.Series, msg.Winner)
	}

	events, ns, err := engine.Apply(s.state, cmd)
	if err != nil {
		s.log.Warn("rejected round end", zap.String("kind", string(msg.Kind)), zap.Error(err))
		return
	}
	s.state = ns

	for _, ev := range events {
		switch ev.Type {
		case engine.EvtRoundPromoted:
			s.promote()
		case engine.EvtSeriesEnded:
			metrics.SeriesCompleted.Inc()
			s.log.Info("series over", zap.String("winner", string(ev.Team)),
				zap.Int("rounds", s.state.Series.RoundNumber))
		}
	}

	s.version++
	s.broadcast(s.snapshot())
}

// promote swaps the preloaded next slot into play and immediately pulls a
// replacement, so a fully loading next round exists at all times.
func (s *Session) promote() {
	s.current = s.next
	s.factory.Activate(s.current.handle)
	s.next = s.pullRound()

	// Clients already assigned to a side get re-registered against the new
	// round's scoring; lobby clients don't.
	var teams []engine.TeamID
	for _, c := range s.clients {
		if c.team != "" {
			teams = append(teams, c.team)
		}
	}
	s.state = engine.SeedTeams(s.state, teams)

	metrics.RoundsPromoted.Inc()
	s.log.Info("round promoted",
		zap.String("round", s.current.id),
		zap.String("game_type", s.current.entry.GameType),
		zap.String("map", s.current.entry.MapName),
		zap.Int("round_number", s.state.Series.RoundNumber))
}

func (s *Session) pullRound() *roundSlot {
	before := s.shuffler.Stats()
	entry := s.shuffler.PullNext()
	after := s.shuffler.Stats()

	metrics.ShufflePulls.Inc()
	if after.Fallbacks > before.Fallbacks {
		metrics.ShuffleFallbacks.Inc()
	}

	slot := &roundSlot{id: uuid.NewString(), entry: entry}
	slot.handle = s.factory.Instantiate(entry)
	s.factory.Preload(slot.handle)
	return slot
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Version: s.version,
		State:   s.state,
		Current: s.current.info(),
		Next:    s.next.info(),
	}
}

func (s *Session) shutdown() {
	for id, c := range s.clients {
		close(c.outbox) // tell the client no more snapshots
		delete(s.clients, id)
		metrics.ConnectedClients.Dec()
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, c := range s.clients {
		select {
		case c.outbox <- snap:
			// ok
		default:
			// client is slow/full - drop them
			close(c.outbox)
			delete(s.clients, id)
			metrics.ConnectedClients.Dec()
		}
	}
}
