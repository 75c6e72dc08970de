package engine

import (
	"errors"
	"testing"
)

func playingState() State {
	return State{
		Phase: PhasePlaying,
		Series: Series{
			RoundNumber: 3,
			TeamScores:  map[TeamID]int{"red": 2, "blue": 1},
			RoundScores: map[TeamID]int{"red": 1, "blue": 0},
		},
	}
}

func TestApply_JoinRoundEndPromotesFirstRound(t *testing.T) {
	s := NewState(false)

	events, ns, err := Apply(s, Command{Type: CmdRoundEnded, Kind: KindJoin})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ns.Phase != PhasePlaying {
		t.Fatalf("want phase playing, got %v", ns.Phase)
	}
	if ns.Series.RoundNumber != 1 {
		t.Fatalf("want round number 1, got %d", ns.Series.RoundNumber)
	}
	if !ContainsEvent(events, EvtRoundPromoted) {
		t.Fatalf("expected EvtRoundPromoted, got %+v", events)
	}
}

func TestApply_TutorialPreemptsRoundLogic(t *testing.T) {
	s := NewState(true)

	events, ns, err := Apply(s, Command{Type: CmdRoundEnded, Kind: KindJoin})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ns.Phase != PhaseTutorial {
		t.Fatalf("want phase tutorial, got %v", ns.Phase)
	}
	if ns.TutorialPending {
		t.Fatalf("tutorial must only be shown once")
	}
	if ns.Series.RoundNumber != 0 {
		t.Fatalf("round logic must be deferred during tutorial hand-off, got round %d", ns.Series.RoundNumber)
	}
	if !ContainsEvent(events, EvtTutorialStarted) {
		t.Fatalf("expected EvtTutorialStarted, got %+v", events)
	}

	// The tutorial finishing is an ordinary non-gameplay round end and
	// finally promotes round one.
	events, ns2, err := Apply(ns, Command{Type: CmdRoundEnded, Kind: KindTutorial})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ns2.Phase != PhasePlaying || ns2.Series.RoundNumber != 1 {
		t.Fatalf("after tutorial: want playing round 1, got %v round %d", ns2.Phase, ns2.Series.RoundNumber)
	}
	if !ContainsEvent(events, EvtRoundPromoted) {
		t.Fatalf("expected EvtRoundPromoted after tutorial, got %+v", events)
	}
}

func TestApply_ScoreScreenEndKeepsTeamScores(t *testing.T) {
	s := playingState()
	s.Phase = PhaseScoreScreen

	events, ns, err := Apply(s, Command{Type: CmdRoundEnded, Kind: KindScoreScreen})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ns.Series.RoundNumber != 4 {
		t.Fatalf("want round number 4, got %d", ns.Series.RoundNumber)
	}
	if ns.Series.TeamScores["red"] != 2 || ns.Series.TeamScores["blue"] != 1 {
		t.Fatalf("team scores must survive a round boundary, got %+v", ns.Series.TeamScores)
	}
	if ns.Series.RoundScores["red"] != 0 || ns.Series.RoundScores["blue"] != 0 {
		t.Fatalf("round scores must reset at a round boundary, got %+v", ns.Series.RoundScores)
	}
	if !ContainsEvent(events, EvtRoundScoresReset) || !ContainsEvent(events, EvtRoundPromoted) {
		t.Fatalf("want round-scores-reset and promotion events, got %+v", events)
	}
	if ContainsEvent(events, EvtSeriesReset) {
		t.Fatalf("a plain score screen must not reset the series")
	}
}

func TestApply_SeriesEndScreenResetsEverything(t *testing.T) {
	s := playingState()
	s.Phase = PhaseSeriesEnd

	events, ns, err := Apply(s, Command{Type: CmdRoundEnded, Kind: KindSeriesEnd})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Series counter resets to zero, then the newly promoted round counts
	// as round one of the fresh series.
	if ns.Series.RoundNumber != 1 {
		t.Fatalf("want round number 1 in fresh series, got %d", ns.Series.RoundNumber)
	}
	for team, score := range ns.Series.TeamScores {
		if score != 0 {
			t.Fatalf("team %s score not reset: %d", team, score)
		}
	}
	for team, score := range ns.Series.RoundScores {
		if score != 0 {
			t.Fatalf("team %s round score not reset: %d", team, score)
		}
	}
	if !ContainsEvent(events, EvtSeriesReset) || !ContainsEvent(events, EvtRoundPromoted) {
		t.Fatalf("want series reset and promotion events, got %+v", events)
	}
}

func TestApply_GameplayEndFollowsVerdict(t *testing.T) {
	cases := []struct {
		name      string
		verdict   Verdict
		wantPhase Phase
		wantEvt   EventType
		wantErr   error
	}{
		{name: "score screen", verdict: VerdictScoreScreen, wantPhase: PhaseScoreScreen, wantEvt: EvtScoreScreen},
		{name: "series end", verdict: VerdictSeriesEnd, wantPhase: PhaseSeriesEnd, wantEvt: EvtSeriesEnded},
		{name: "missing verdict", verdict: "", wantErr: ErrMissingVerdict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := playingState()
			events, ns, err := Apply(s, Command{
				Type: CmdRoundEnded, Kind: KindGameplay, Winner: "red", Verdict: tc.verdict,
			})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if ns.Phase != tc.wantPhase {
				t.Fatalf("want phase %v, got %v", tc.wantPhase, ns.Phase)
			}
			if !ContainsEvent(events, tc.wantEvt) {
				t.Fatalf("want %v, got %+v", tc.wantEvt, events)
			}
			// No score mutation happens on the round-end itself.
			if ns.Series.TeamScores["red"] != 2 {
				t.Fatalf("round end must not award points, got %+v", ns.Series.TeamScores)
			}
		})
	}
}

func TestApply_AddScore(t *testing.T) {
	cases := []struct {
		name    string
		setup   State
		cmd     Command
		wantErr error
	}{
		{
			name:  "legal score during play",
			setup: playingState(),
			cmd:   Command{Type: CmdAddScore, Team: "red", Points: 2},
		},
		{
			name:    "rejected outside play",
			setup:   NewState(false),
			cmd:     Command{Type: CmdAddScore, Team: "red", Points: 2},
			wantErr: ErrInvalidPhase,
		},
		{
			name:    "rejected negative points",
			setup:   playingState(),
			cmd:     Command{Type: CmdAddScore, Team: "red", Points: -1},
			wantErr: ErrNegativePoints,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ns, err := Apply(tc.setup, tc.cmd)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if ns.Series.TeamScores["red"] != tc.setup.Series.TeamScores["red"]+tc.cmd.Points {
				t.Fatalf("team score not accumulated: %+v", ns.Series.TeamScores)
			}
			if ns.Series.RoundScores["red"] != tc.setup.Series.RoundScores["red"]+tc.cmd.Points {
				t.Fatalf("round score not accumulated: %+v", ns.Series.RoundScores)
			}
		})
	}
}

func TestApply_BeginSeriesRestartsFromLobby(t *testing.T) {
	s := playingState()

	events, ns, err := Apply(s, Command{Type: CmdBeginSeries})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ns.Phase != PhaseJoining {
		t.Fatalf("want join phase after restart, got %v", ns.Phase)
	}
	if ns.Series.RoundNumber != 0 {
		t.Fatalf("want round number 0 after restart, got %d", ns.Series.RoundNumber)
	}
	for team, score := range ns.Series.TeamScores {
		if score != 0 {
			t.Fatalf("team %s score not reset: %d", team, score)
		}
	}
	for team, score := range ns.Series.RoundScores {
		if score != 0 {
			t.Fatalf("team %s round score not reset: %d", team, score)
		}
	}
	// Teams stay registered, only their scores go.
	if _, ok := ns.Series.TeamScores["red"]; !ok {
		t.Fatalf("restart must keep registered teams, got %+v", ns.Series.TeamScores)
	}
	if !ContainsEvent(events, EvtSeriesReset) {
		t.Fatalf("expected EvtSeriesReset, got %+v", events)
	}
}

func TestApply_RejectsUnknownRoundKind(t *testing.T) {
	_, _, err := Apply(NewState(false), Command{Type: CmdRoundEnded, Kind: "victory_lap"})
	if !errors.Is(err, ErrUnknownRoundKind) {
		t.Fatalf("want ErrUnknownRoundKind, got %v", err)
	}
}

func TestApply_RejectsUnsupportedCommand(t *testing.T) {
	_, _, err := Apply(NewState(false), Command{Type: "Teleport"})
	if !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := playingState()
	_, _, err := Apply(s, Command{Type: CmdAddScore, Team: "red", Points: 5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Series.TeamScores["red"] != 2 || s.Series.RoundScores["red"] != 1 {
		t.Fatalf("Apply mutated its input: %+v", s.Series)
	}
}
