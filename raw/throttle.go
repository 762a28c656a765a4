package raw

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// Throttle rate-limits how often RequestProc actually reaches the host for a
// given variable, coalescing bursts of application-side requests (e.g. a
// write handle updated in a tight loop) into the configured rate. It is
// optional: SPEC_FULL §2 calls for this as an ambient protection the host
// ABI itself does not provide, not as a requirement of spec.md's original
// state machine, so a Variable used without a Throttle behaves exactly as
// spec.md describes.
type Throttle struct {
	limiter *catrate.Limiter
}

// NewThrottle builds a Throttle from a set of sliding-window rate limits,
// keyed by variable name (see catrate.Limiter.Allow's category parameter).
// Passing an empty map disables throttling: Allow always reports ok.
func NewThrottle(rates map[time.Duration]int) *Throttle {
	if len(rates) == 0 {
		return &Throttle{}
	}
	return &Throttle{limiter: catrate.NewLimiter(rates)}
}

// Allow reports whether a RequestProc call for the named variable may
// proceed now, and if not, the time at which it next may.
func (t *Throttle) Allow(name string) (time.Time, bool) {
	if t == nil || t.limiter == nil {
		return time.Time{}, true
	}
	return t.limiter.Allow(name)
}

// RequestProc behaves like Guard.RequestProc, but first consults t. A
// throttled request is simply dropped: proc_state stays Idle and the caller
// may retry later (typically, the next time the application produces new
// data for a Write variable). Caller must hold g.
func (t *Throttle) RequestProc(g *Guard) {
	if _, ok := t.Allow(g.v.Name()); !ok {
		return
	}
	g.RequestProc()
}
