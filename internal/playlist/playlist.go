package playlist

import (
	"errors"

	"go.uber.org/zap"
)

var ErrEmptyPlaylist = errors.New("playlist has no playable entries")

// Entry is one fully resolved round description: which game type to run,
// on which map, with which settings. Entries are immutable after Resolve.
type Entry struct {
	GameType string
	MapName  string
	Settings map[string]any
}

// RawEntry is the shape entries take in persisted configuration before
// resolution: {"type": ..., "map": ..., "settings": {...}}.
type RawEntry map[string]any

// GameTypes is the set of game-type identifiers the host runtime can load.
type GameTypes map[string]struct{}

func (g GameTypes) Contains(name string) bool {
	_, ok := g[name]
	return ok
}

// Resolve turns raw configuration entries into runnable Entry values.
// Malformed entries (missing map, missing or unknown game type) are dropped
// with an error log rather than failing the whole playlist; if nothing
// survives, that is a configuration error and ErrEmptyPlaylist is returned.
func Resolve(raw []RawEntry, known GameTypes, log *zap.Logger) ([]Entry, error) {
	if log == nil {
		log = zap.NewNop()
	}

	out := make([]Entry, 0, len(raw))
	for i, r := range raw {
		gameType, ok := r["type"].(string)
		if !ok || !known.Contains(gameType) {
			log.Error("dropping playlist entry with unknown game type",
				zap.Int("index", i), zap.Any("type", r["type"]))
			continue
		}
		mapName, ok := r["map"].(string)
		if !ok || mapName == "" {
			log.Error("dropping playlist entry without a map",
				zap.Int("index", i), zap.String("type", gameType))
			continue
		}

		settings := map[string]any{}
		if s, ok := r["settings"].(map[string]any); ok {
			for k, v := range s {
				settings[k] = v
			}
		}

		out = append(out, Entry{GameType: gameType, MapName: mapName, Settings: settings})
	}

	if len(out) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return out, nil
}
