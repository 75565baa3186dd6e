package engine

import "sync"

// Listener is signalled after every projection change. Signals coalesce: a
// slow reader sees one pending signal, then pulls the latest snapshot.
type Listener struct {
	C <-chan struct{}

	c     chan struct{}
	once  sync.Once
	close func()
}

// Close unregisters the listener. C is not closed.
func (l *Listener) Close() {
	l.once.Do(l.close)
}

func (e *Engine) Subscribe() *Listener {
	c := make(chan struct{}, 1)
	l := &Listener{C: c, c: c}
	l.close = func() {
		e.listenersMu.Lock()
		delete(e.listeners, l)
		e.listenersMu.Unlock()
	}

	e.listenersMu.Lock()
	e.listeners[l] = struct{}{}
	e.listenersMu.Unlock()
	return l
}

func (e *Engine) notify() {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	for l := range e.listeners {
		select {
		case l.c <- struct{}{}:
		default:
		}
	}
}
