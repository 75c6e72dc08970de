package engine

import "errors"

var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrUnknownRoundKind = errors.New("unknown round kind")
var ErrMissingVerdict = errors.New("gameplay round ended without a verdict")
var ErrInvalidPhase = errors.New("invalid phase for action")
var ErrNegativePoints = errors.New("scores never decrement")

type TeamID string

type Phase string

const (
	PhaseJoining     Phase = "joining"
	PhaseTutorial    Phase = "tutorial"
	PhaseTransition  Phase = "transition"
	PhasePlaying     Phase = "playing"
	PhaseScoreScreen Phase = "score_screen"
	PhaseSeriesEnd   Phase = "series_end"
)

// RoundKind tags what sort of round just finished, so round-end handling can
// dispatch on it instead of inspecting the round itself.
type RoundKind string

const (
	KindJoin        RoundKind = "join"
	KindTutorial    RoundKind = "tutorial"
	KindTransition  RoundKind = "transition"
	KindScoreScreen RoundKind = "score_screen"
	KindSeriesEnd   RoundKind = "series_end"
	KindGameplay    RoundKind = "gameplay"
)

// Verdict is the external decider's ruling on what follows a gameplay round.
type Verdict string

const (
	VerdictScoreScreen Verdict = "score_screen"
	VerdictSeriesEnd   Verdict = "series_end"
)

// Series tracks cumulative state across the rounds of one series. Team
// scores accumulate until a series reset; round scores reset every round.
type Series struct {
	RoundNumber int
	TeamScores  map[TeamID]int
	RoundScores map[TeamID]int
}

type State struct {
	Phase           Phase
	Series          Series
	TutorialPending bool
}

type CommandType string

const (
	CmdRoundEnded  CommandType = "RoundEnded"
	CmdAddScore    CommandType = "AddScore"
	CmdBeginSeries CommandType = "BeginSeries"
)

type Command struct {
	Type    CommandType
	Kind    RoundKind // RoundEnded: kind of the round that finished
	Winner  TeamID    // RoundEnded: winning side of a gameplay round
	Verdict Verdict   // RoundEnded: decider ruling, required for gameplay kinds
	Team    TeamID    // AddScore
	Points  int       // AddScore
}

type EventType string

const (
	EvtTutorialStarted  EventType = "TutorialStarted"
	EvtSeriesReset      EventType = "SeriesReset"
	EvtRoundScoresReset EventType = "RoundScoresReset"
	EvtRoundPromoted    EventType = "RoundPromoted"
	EvtScoreScreen      EventType = "ScoreScreen"
	EvtSeriesEnded      EventType = "SeriesEnded"
	EvtScoreAdded       EventType = "ScoreAdded"
)

type Event struct {
	Type   EventType
	Team   TeamID
	Points int
}

// Apply runs one command against the series state machine and returns the
// emitted events plus the successor state. It never mutates its input.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdRoundEnded:
		return applyRoundEnded(s, cmd)

	case CmdAddScore:
		if s.Phase != PhasePlaying {
			return nil, s, ErrInvalidPhase
		}
		if cmd.Points < 0 {
			return nil, s, ErrNegativePoints
		}
		ns := cloneState(s)
		ns.Series.TeamScores[cmd.Team] += cmd.Points
		ns.Series.RoundScores[cmd.Team] += cmd.Points
		return []Event{{Type: EvtScoreAdded, Team: cmd.Team, Points: cmd.Points}}, ns, nil

	case CmdBeginSeries:
		// Explicit restart: back to the join lobby with a zeroed series.
		// Registered teams stay registered, their scores do not.
		ns := cloneState(s)
		ns.Phase = PhaseJoining
		ns.Series.RoundNumber = 0
		for team := range ns.Series.TeamScores {
			ns.Series.TeamScores[team] = 0
		}
		for team := range ns.Series.RoundScores {
			ns.Series.RoundScores[team] = 0
		}
		return []Event{{Type: EvtSeriesReset}}, ns, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyRoundEnded(s State, cmd Command) ([]Event, State, error) {
	if !knownKind(cmd.Kind) {
		return nil, s, ErrUnknownRoundKind
	}

	ns := cloneState(s)

	// A pending tutorial preempts everything else; normal round logic is
	// deferred until the tutorial round itself reports completion.
	if s.TutorialPending {
		ns.TutorialPending = false
		ns.Phase = PhaseTutorial
		return []Event{{Type: EvtTutorialStarted}}, ns, nil
	}

	if cmd.Kind != KindGameplay {
		events := []Event{}
		if cmd.Kind == KindSeriesEnd {
			// A series-end screen finishing starts a fresh series: round
			// counter back to zero, every team's score back to zero.
			ns.Series.RoundNumber = 0
			for team := range ns.Series.TeamScores {
				ns.Series.TeamScores[team] = 0
			}
			events = append(events, Event{Type: EvtSeriesReset})
		} else {
			events = append(events, Event{Type: EvtRoundScoresReset})
		}
		for team := range ns.Series.RoundScores {
			ns.Series.RoundScores[team] = 0
		}

		ns.Series.RoundNumber++
		ns.Phase = PhasePlaying
		events = append(events, Event{Type: EvtRoundPromoted})
		return events, ns, nil
	}

	// Gameplay round over: the decider has already ruled on what comes next.
	switch cmd.Verdict {
	case VerdictSeriesEnd:
		ns.Phase = PhaseSeriesEnd
		return []Event{{Type: EvtSeriesEnded, Team: cmd.Winner}}, ns, nil
	case VerdictScoreScreen:
		ns.Phase = PhaseScoreScreen
		return []Event{{Type: EvtScoreScreen, Team: cmd.Winner}}, ns, nil
	default:
		return nil, s, ErrMissingVerdict
	}
}
