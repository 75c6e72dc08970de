package engine

// NewState is the state every session starts in: the join lobby, with a
// tutorial queued up if the session is configured to show one.
func NewState(tutorial bool) State {
	return State{
		Phase: PhaseJoining,
		Series: Series{
			TeamScores:  map[TeamID]int{},
			RoundScores: map[TeamID]int{},
		},
		TutorialPending: tutorial,
	}
}

// SeedTeams makes sure every listed team has score entries, so rosters show
// up at zero instead of being absent until their first point.
func SeedTeams(s State, teams []TeamID) State {
	ns := cloneState(s)
	for _, t := range teams {
		if _, ok := ns.Series.TeamScores[t]; !ok {
			ns.Series.TeamScores[t] = 0
		}
		if _, ok := ns.Series.RoundScores[t]; !ok {
			ns.Series.RoundScores[t] = 0
		}
	}
	return ns
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func knownKind(k RoundKind) bool {
	switch k {
	case KindJoin, KindTutorial, KindTransition, KindScoreScreen, KindSeriesEnd, KindGameplay:
		return true
	}
	return false
}

func cloneState(s State) State {
	ns := s
	ns.Series.TeamScores = make(map[TeamID]int, len(s.Series.TeamScores))
	for k, v := range s.Series.TeamScores {
		ns.Series.TeamScores[k] = v
	}
	ns.Series.RoundScores = make(map[TeamID]int, len(s.Series.RoundScores))
	for k, v := range s.Series.RoundScores {
		ns.Series.RoundScores[k] = v
	}
	return ns
}
