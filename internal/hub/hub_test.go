package hub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nfarrow/partyrounds-backend/internal/playlist"
	"github.com/nfarrow/partyrounds-backend/internal/session"
)

type nopFactory struct{}

func (nopFactory) Instantiate(e playlist.Entry) session.RoundHandle { return e }
func (nopFactory) Preload(session.RoundHandle)                      {}
func (nopFactory) Activate(session.RoundHandle)                     {}

func testSessionConfig() session.Config {
	return session.Config{
		Entries: []playlist.Entry{
			{GameType: "deathmatch", MapName: "crag_castle"},
			{GameType: "assault", MapName: "bridgit"},
		},
		Shuffle: true,
		Factory: nopFactory{},
	}
}

func create(t *testing.T, h *Hub, code string, cfg session.Config) CreateResult {
	t.Helper()
	reply := make(chan CreateResult, 1)
	h.Inbox() <- CreateSession{Code: code, Config: cfg, Reply: reply}
	select {
	case res := <-reply:
		return res
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for create reply")
		return CreateResult{} // unreachable
	}
}

func TestHub_CreateThenGet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil)

	res := create(t, h, "ABC123", testSessionConfig())
	if res.Err != nil || res.Session == nil {
		t.Fatalf("create failed: %+v", res)
	}

	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "ABC123", Reply: reply}
	if got := <-reply; got != res.Session {
		t.Fatalf("get returned a different session: %p vs %p", got, res.Session)
	}

	// Creating the same code again returns the existing session.
	again := create(t, h, "ABC123", testSessionConfig())
	if again.Session != res.Session {
		t.Fatalf("duplicate create must return the existing session")
	}
}

func TestHub_CreateWithEmptyPlaylistFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil)

	cfg := testSessionConfig()
	cfg.Entries = nil
	res := create(t, h, "EMPTY1", cfg)
	if !errors.Is(res.Err, playlist.ErrEmptyPlaylist) {
		t.Fatalf("want ErrEmptyPlaylist, got %v", res.Err)
	}

	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "EMPTY1", Reply: reply}
	if got := <-reply; got != nil {
		t.Fatalf("failed creation must not register a session")
	}
}

func TestHub_RemoveUnknownCodeIsNoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil)

	h.Inbox() <- RemoveSession{Code: "NOPE"}

	res := create(t, h, "STILL1", testSessionConfig())
	if res.Err != nil {
		t.Fatalf("hub must keep serving after a bogus remove: %v", res.Err)
	}
}
