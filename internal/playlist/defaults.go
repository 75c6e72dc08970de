package playlist

// DefaultGameTypes lists the game modes the bundled host runtime knows how
// to load. Stored playlists referencing anything else get filtered out at
// resolution time.
func DefaultGameTypes() GameTypes {
	return GameTypes{
		"assault":          {},
		"capture_the_flag": {},
		"conquest":         {},
		"deathmatch":       {},
		"elimination":      {},
		"king_of_the_hill": {},
		"onslaught":        {},
	}
}

// DefaultRaw generates the procedural default playlist used when no named
// playlist is configured. It deliberately pairs each map with more than one
// game type so the anti-repeat draw has something to work with.
func DefaultRaw() []RawEntry {
	return []RawEntry{
		{"type": "deathmatch", "map": "crag_castle", "settings": map[string]any{"kills_to_win": 5}},
		{"type": "capture_the_flag", "map": "bridgit", "settings": map[string]any{"flags_to_win": 3}},
		{"type": "king_of_the_hill", "map": "zigzag", "settings": map[string]any{"hold_seconds": 30}},
		{"type": "assault", "map": "crag_castle", "settings": map[string]any{}},
		{"type": "conquest", "map": "bridgit", "settings": map[string]any{}},
		{"type": "elimination", "map": "rampage", "settings": map[string]any{"lives": 3}},
		{"type": "onslaught", "map": "zigzag", "settings": map[string]any{}},
	}
}
