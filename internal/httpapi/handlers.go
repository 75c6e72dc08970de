package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nfarrow/partyrounds-backend/internal/config"
	"github.com/nfarrow/partyrounds-backend/internal/engine"
	"github.com/nfarrow/partyrounds-backend/internal/hub"
	"github.com/nfarrow/partyrounds-backend/internal/playlist"
	"github.com/nfarrow/partyrounds-backend/internal/session"
	"github.com/nfarrow/partyrounds-backend/internal/store"
)

// API bundles the collaborators every handler needs. Everything is injected;
// nothing here reaches for globals.
type API struct {
	Hub     *hub.Hub
	Store   *store.Store
	Cfg     config.Server
	Factory session.RoundFactory
	Log     *zap.Logger
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createSessionRequest struct {
	Playlist string `json:"playlist,omitempty"`
}

// CreateSession resolves the requested (or default) playlist and spins up a
// session for it. Playlist problems surface here, before the session exists.
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body means defaults
	}

	name := req.Playlist
	if name == "" {
		name = a.Cfg.DefaultPlaylist
	}

	var (
		raw      []playlist.RawEntry
		shuffle  = a.Cfg.ShuffleDefault
		points   = a.Cfg.SeriesLength
		tutorial = a.Cfg.ShowTutorial
	)
	if name == "" {
		raw = playlist.DefaultRaw()
	} else {
		loaded, err := a.Store.Load(name)
		if errors.Is(err, store.ErrPlaylistNotFound) {
			http.Error(w, "playlist not found", http.StatusNotFound)
			return
		}
		if err != nil {
			a.Log.Error("playlist load failed", zap.String("playlist", name), zap.Error(err))
			http.Error(w, "failed to load playlist", http.StatusInternalServerError)
			return
		}
		raw = loaded.Raw
		shuffle = loaded.ShuffleEnabled
		tutorial = loaded.ShowTutorial
		if loaded.SeriesLength > 0 {
			points = loaded.SeriesLength
		}
	}

	entries, err := playlist.Resolve(raw, playlist.DefaultGameTypes(), a.Log)
	if err != nil {
		http.Error(w, "playlist has no playable entries", http.StatusUnprocessableEntity)
		return
	}

	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}
		reply := make(chan *session.Session, 1)
		a.Hub.Inbox() <- hub.GetSession{Code: c, Reply: reply}
		if <-reply == nil {
			code = c
			break
		}
		a.Log.Warn("collision on code, regenerating")
	}

	reply := make(chan hub.CreateResult, 1)
	a.Hub.Inbox() <- hub.CreateSession{
		Code: code,
		Config: session.Config{
			Entries:     entries,
			Shuffle:     shuffle,
			Tutorial:    tutorial,
			PointsToWin: points,
			Factory:     a.Factory,
			Log:         a.Log,
		},
		Reply: reply,
	}
	res := <-reply
	if res.Err != nil || res.Session == nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(struct {
		Code string `json:"code"`
	}{Code: code})
}

type sessionView struct {
	Phase        engine.Phase          `json:"phase"`
	RoundNumber  int                   `json:"round_number"`
	TeamScores   map[engine.TeamID]int `json:"team_scores"`
	RoundScores  map[engine.TeamID]int `json:"round_scores"`
	CurrentRound *session.RoundInfo    `json:"current_round,omitempty"`
	NextRound    *session.RoundInfo    `json:"next_round,omitempty"`
	NumClients   int                   `json:"num_clients"`
}

func (a *API) GetSession(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	reply := make(chan *session.Session, 1)
	a.Hub.Inbox() <- hub.GetSession{Code: code, Reply: reply}
	s := <-reply
	if s == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	viewReply := make(chan session.View, 1)
	s.Inbox() <- session.GetState{Reply: viewReply}
	select {
	case v := <-viewReply:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sessionView{
			Phase:        v.State.Phase,
			RoundNumber:  v.State.Series.RoundNumber,
			TeamScores:   v.State.Series.TeamScores,
			RoundScores:  v.State.Series.RoundScores,
			CurrentRound: v.Current,
			NextRound:    v.Next,
			NumClients:   v.NumClients,
		})
	case <-time.After(2 * time.Second):
		http.Error(w, "session unresponsive", http.StatusServiceUnavailable)
	}
}

func (a *API) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	names, err := a.Store.List()
	if err != nil {
		a.Log.Error("playlist list failed", zap.Error(err))
		http.Error(w, "failed to list playlists", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Playlists []string `json:"playlists"`
	}{Playlists: names})
}

type savePlaylistRequest struct {
	Name         string              `json:"name"`
	Shuffle      bool                `json:"shuffle"`
	SeriesLength int                 `json:"series_length,omitempty"`
	Tutorial     bool                `json:"tutorial,omitempty"`
	Entries      []playlist.RawEntry `json:"entries"`
}

func (a *API) SavePlaylist(w http.ResponseWriter, r *http.Request) {
	var req savePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Resolve up front so an unplayable playlist is rejected at save time
	// instead of surprising whoever starts a session with it later.
	if _, err := playlist.Resolve(req.Entries, playlist.DefaultGameTypes(), a.Log); err != nil {
		http.Error(w, "playlist has no playable entries", http.StatusUnprocessableEntity)
		return
	}

	err := a.Store.Save(store.Config{
		Name:           req.Name,
		ShuffleEnabled: req.Shuffle,
		SeriesLength:   req.SeriesLength,
		ShowTutorial:   req.Tutorial,
		Raw:            req.Entries,
	})
	if err != nil {
		a.Log.Error("playlist save failed", zap.String("playlist", req.Name), zap.Error(err))
		http.Error(w, "failed to save playlist", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
