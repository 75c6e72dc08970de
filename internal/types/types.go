package types

import (
	"github.com/nfarrow/partyrounds-backend/internal/engine"
	"github.com/nfarrow/partyrounds-backend/internal/session"
)

// ClientMessage is anything a websocket client sends us. Type selects the
// variant; unused fields stay at their zero values.
//
//	RoundEnded:   kind, winner  (sent by the host runtime)
//	AssignTeam:   team          (applies to the sending client)
//	AddScore:     team, points  (sent by game-mode logic)
//	BeginSeries:  no fields     (restart from the join lobby)
type ClientMessage struct {
	Type   string `json:"type"`
	Kind   string `json:"kind,omitempty"`
	Winner string `json:"winner,omitempty"`
	Team   string `json:"team,omitempty"`
	Points int    `json:"points,omitempty"`
}

type SnapshotPayload struct {
	Phase        engine.Phase           `json:"phase"`
	RoundNumber  int                    `json:"round_number"`
	TeamScores   map[engine.TeamID]int  `json:"team_scores"`
	RoundScores  map[engine.TeamID]int  `json:"round_scores"`
	CurrentRound *session.RoundInfo     `json:"current_round,omitempty"`
	NextRound    *session.RoundInfo     `json:"next_round,omitempty"`
}

// ServerMessage is "StateSnapshot" or "Error".
type ServerMessage struct {
	Type     string           `json:"type"`
	Version  int              `json:"version,omitempty"`
	Snapshot *SnapshotPayload `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func SnapshotMessage(snap session.Snapshot) ServerMessage {
	return ServerMessage{
		Type:    "StateSnapshot",
		Version: snap.Version,
		Snapshot: &SnapshotPayload{
			Phase:        snap.State.Phase,
			RoundNumber:  snap.State.Series.RoundNumber,
			TeamScores:   snap.State.Series.TeamScores,
			RoundScores:  snap.State.Series.RoundScores,
			CurrentRound: snap.Current,
			NextRound:    snap.Next,
		},
	}
}
