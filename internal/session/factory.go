package session

import (
	"github.com/nfarrow/partyrounds-backend/internal/playlist"
)

// RoundHandle is an opaque reference to a round's pre-instantiated content.
// The controller never inspects load progress; it only hands the handle
// back to the factory that produced it.
type RoundHandle interface{}

// RoundFactory is the external content factory: it resolves playlist
// entries into loadable round content on the host runtime.
type RoundFactory interface {
	// Instantiate builds the content handle for a resolved entry.
	Instantiate(entry playlist.Entry) RoundHandle
	// Preload begins loading the handle's content. Fire-and-forget: the
	// heavy lifting happens inside the factory, nothing here waits on it.
	Preload(h RoundHandle)
	// Activate makes the round live.
	Activate(h RoundHandle)
}

// roundSlot pairs a pulled entry with its content handle. A slot's preload
// is always kicked off the moment the slot is created.
type roundSlot struct {
	id     string
	entry  playlist.Entry
	handle RoundHandle
}

// RoundInfo is the externally visible description of a round slot.
type RoundInfo struct {
	ID       string `json:"id"`
	GameType string `json:"game_type"`
	MapName  string `json:"map"`
}

func (r *roundSlot) info() *RoundInfo {
	if r == nil {
		return nil
	}
	return &RoundInfo{ID: r.id, GameType: r.entry.GameType, MapName: r.entry.MapName}
}
