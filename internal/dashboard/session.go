package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "session"

// ErrSuperseded is the cancellation cause of a cycle replaced by a newer
// request from the same session.
var ErrSuperseded = errors.New("superseded by a newer request")

// Cycle is one registered fetch-and-aggregate cycle.
type Cycle struct {
	session string
	id      uint64
	cancel  context.CancelCauseFunc
}

// Tracker keeps at most one in-flight cycle per session. Starting a new cycle
// cancels the previous one so its result is never rendered.
type Tracker struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]*Cycle
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]*Cycle)}
}

// Begin registers a cycle for session and returns its context. Any cycle
// still registered for the same session is cancelled with ErrSuperseded.
func (t *Tracker) Begin(parent context.Context, session string) (context.Context, *Cycle) {
	ctx, cancel := context.WithCancelCause(parent)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	c := &Cycle{session: session, id: t.seq, cancel: cancel}
	if prev, ok := t.active[session]; ok {
		prev.cancel(ErrSuperseded)
	}
	t.active[session] = c
	return ctx, c
}

// End releases c. The registration is removed only if no newer cycle has
// replaced it.
func (t *Tracker) End(c *Cycle) {
	t.mu.Lock()
	if cur, ok := t.active[c.session]; ok && cur.id == c.id {
		delete(t.active, c.session)
	}
	t.mu.Unlock()
	c.cancel(context.Canceled)
}

// Active returns the number of sessions with an in-flight cycle.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Superseded reports whether ctx was cancelled by a newer cycle.
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}

// sessionID returns the caller's session id, issuing a new cookie if absent.
func sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}
