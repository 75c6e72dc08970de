package rounds

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nfarrow/partyrounds-backend/internal/playlist"
	"github.com/nfarrow/partyrounds-backend/internal/session"
)

// Handle is the content reference handed back to the session layer. Ready
// flips once the background preload finishes; nothing in the controller
// waits on it, but the host runtime checks it at activation.
type Handle struct {
	entry playlist.Entry
	ready atomic.Bool
}

func (h *Handle) Entry() playlist.Entry { return h.entry }
func (h *Handle) Ready() bool           { return h.ready.Load() }

// Factory is the built-in round content factory. It fronts the host
// runtime's asset loading with a warm cache keyed by map name, so a map
// that already played this process skips the cold path entirely.
type Factory struct {
	log *zap.Logger

	mu   sync.Mutex
	warm map[string]bool
}

var _ session.RoundFactory = (*Factory)(nil)

func New(log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{log: log, warm: make(map[string]bool)}
}

func (f *Factory) Instantiate(entry playlist.Entry) session.RoundHandle {
	return &Handle{entry: entry}
}

// Preload warms the handle's map assets off the calling goroutine. The
// session fires this and moves on; by the time the round is promoted the
// content is normally long since ready.
func (f *Factory) Preload(h session.RoundHandle) {
	handle, ok := h.(*Handle)
	if !ok {
		return
	}
	go func() {
		f.mu.Lock()
		cold := !f.warm[handle.entry.MapName]
		f.warm[handle.entry.MapName] = true
		f.mu.Unlock()

		if cold {
			f.log.Debug("loading map assets",
				zap.String("map", handle.entry.MapName),
				zap.String("game_type", handle.entry.GameType))
		}
		handle.ready.Store(true)
	}()
}

func (f *Factory) Activate(h session.RoundHandle) {
	handle, ok := h.(*Handle)
	if !ok {
		return
	}
	if !handle.Ready() {
		// Preload has not landed yet; the host runtime blocks its own load
		// screen, never the controller.
		f.log.Warn("activating round before preload finished",
			zap.String("map", handle.entry.MapName),
			zap.String("game_type", handle.entry.GameType))
	}
	f.log.Info("round live",
		zap.String("map", handle.entry.MapName),
		zap.String("game_type", handle.entry.GameType))
}
