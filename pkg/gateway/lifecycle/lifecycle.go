package lifecycle

import "sync/atomic"

// Lifecycle holds the process drain flag shared between the readiness
// handler and the shutdown path. Once draining, /readyz reports 503 so
// the load balancer stops routing new connections here.
type Lifecycle struct {
	draining atomic.Bool
}

func (l *Lifecycle) SetDraining(draining bool) {
	if l == nil {
		return
	}
	l.draining.Store(draining)
}

func (l *Lifecycle) IsDraining() bool {
	if l == nil {
		return false
	}
	return l.draining.Load()
}
