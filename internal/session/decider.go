package session

import (
	"github.com/nfarrow/partyrounds-backend/internal/engine"
)

// Decider rules on what follows a finished gameplay round: another score
// screen, or the series-end screen. The concrete game-mode rules own this
// decision, not the controller.
type Decider interface {
	Decide(series engine.Series, winner engine.TeamID) engine.Verdict
}

// PointsDecider ends the series once the winning side has reached the
// configured points-to-win total.
type PointsDecider struct {
	PointsToWin int
}

func (d PointsDecider) Decide(series engine.Series, winner engine.TeamID) engine.Verdict {
	if d.PointsToWin > 0 && series.TeamScores[winner] >= d.PointsToWin {
		return engine.VerdictSeriesEnd
	}
	return engine.VerdictScoreScreen
}
