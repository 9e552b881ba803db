package webhost

import (
	"sync"
	"sync/atomic"
)

// Event is passed to lifetime listeners. A listener can stop the event from
// reaching the listeners registered after it.
type Event struct {
	stoppedPropagation uint32
	app                *Application
}

func (e *Event) StopPropagation() {
	atomic.CompareAndSwapUint32(&e.stoppedPropagation, 0, 1)
}

func (e *Event) CanPropagate() bool {
	return atomic.LoadUint32(&e.stoppedPropagation) == 0
}

func (e *Event) Application() *Application {
	return e.app
}

type Listener = func(*Event)

// Lifetime lets services observe the application starting and stopping. It is
// registered as a hosting service.
type Lifetime struct {
	mu       sync.Mutex
	started  []Listener
	stopping []Listener
	stopped  []Listener
}

func (l *Lifetime) OnStarted(fn Listener)  { l.add(&l.started, fn) }
func (l *Lifetime) OnStopping(fn Listener) { l.add(&l.stopping, fn) }
func (l *Lifetime) OnStopped(fn Listener)  { l.add(&l.stopped, fn) }

func (l *Lifetime) add(listeners *[]Listener, fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*listeners = append(*listeners, fn)
}

func (l *Lifetime) fire(listeners *[]Listener, app *Application) {
	l.mu.Lock()
	fns := append([]Listener(nil), *listeners...)
	l.mu.Unlock()

	e := &Event{app: app}
	for _, fn := range fns {
		if !e.CanPropagate() {
			return
		}

		fn(e)
	}
}
