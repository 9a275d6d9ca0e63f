package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event at a fixed interval. A trace where
// heartbeats continue but no file span ends points at a stuck worker.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts the ticker goroutine. It returns nil when tracing
// is disabled or interval is not positive; Stop accepts nil.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(tracer, interval)
	return h
}

func (h *Heartbeat) run(tracer Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	gid := goid()
	for beat := 1; ; beat++ {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    gid,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat),
			})
		}
	}
}

// Stop ends the goroutine and waits for it. Safe to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
