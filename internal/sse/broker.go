// Package sse implements the Server-Sent Events broker behind /api/events.
// Rebuilds publish page.updated and site.reloaded frames; connected browsers
// listen and refresh.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// client is one subscriber's outbound frame buffer.
type client chan []byte

// Broker fans rebuild notifications out to connected browsers. A single
// goroutine owns the subscriber set and the reload throttle state; the
// exported methods talk to it over channels only.
type Broker struct {
	reloadEvery time.Duration

	reg     chan client
	unreg   chan client
	frames  chan []byte
	reloads chan struct{}
	counts  chan chan int

	quit   chan struct{}
	done   chan struct{}
	closed atomic.Bool
}

// NewBroker starts the broker loop. reloadEvery caps how often site.reloaded
// is emitted; zero or negative selects the 500ms default.
func NewBroker(reloadEvery time.Duration) *Broker {
	if reloadEvery <= 0 {
		reloadEvery = 500 * time.Millisecond
	}

	b := &Broker{
		reloadEvery: reloadEvery,
		reg:         make(chan client),
		unreg:       make(chan client),
		frames:      make(chan []byte, 256),
		reloads:     make(chan struct{}, 256),
		counts:      make(chan chan int),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	go b.loop()
	return b
}

// frame renders one SSE wire frame.
func frame(event string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", event, data)
}

var reloadFrame = frame("site.reloaded", struct{}{})

func (b *Broker) loop() {
	defer close(b.done)

	conns := make(map[client]struct{})
	var lastReload time.Time

	deliver := func(msg []byte) {
		for c := range conns {
			select {
			case c <- msg:
			default:
				// Slow reader: drop the frame rather than block the loop.
			}
		}
	}

	for {
		select {
		case <-b.quit:
			for c := range conns {
				close(c)
			}
			return

		case c := <-b.reg:
			conns[c] = struct{}{}

		case c := <-b.unreg:
			if _, ok := conns[c]; ok {
				delete(conns, c)
				close(c)
			}

		case msg := <-b.frames:
			deliver(msg)

		case <-b.reloads:
			if now := time.Now(); now.Sub(lastReload) >= b.reloadEvery {
				lastReload = now
				deliver(reloadFrame)
			}

		case reply := <-b.counts:
			reply <- len(conns)
		}
	}
}

func (b *Broker) send(msg []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.frames <- msg:
	case <-b.done:
	}
}

// PublishPageUpdated announces one changed vault file.
func (b *Broker) PublishPageUpdated(path string) {
	b.send(frame("page.updated", struct {
		Path string `json:"path"`
	}{Path: path}))
}

// PublishReload asks browsers to refresh. Calls inside the throttle window
// are dropped, so a burst of rebuilds turns into one reload.
func (b *Broker) PublishReload() {
	if b.closed.Load() {
		return
	}
	select {
	case b.reloads <- struct{}{}:
	case <-b.done:
	}
}

// Subscribe registers a new client channel. The channel is closed by
// Unsubscribe or Close.
func (b *Broker) Subscribe() chan []byte {
	c := make(client, 64)
	if b.closed.Load() {
		close(c)
		return c
	}

	select {
	case b.reg <- c:
	case <-b.done:
		close(c)
	}
	return c
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unreg <- ch:
	case <-b.done:
	}
}

// ClientCount reports the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	reply := make(chan int, 1)
	select {
	case b.counts <- reply:
	case <-b.done:
		return 0
	}

	select {
	case n := <-reply:
		return n
	case <-b.done:
		return 0
	}
}

// Close stops the loop and closes every subscriber channel. Safe to call
// more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.done
}

// ServeHTTP streams frames to one browser until it disconnects. Mounted at
// GET /api/events.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
