package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func recvFrame(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("subscriber channel closed early")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame within 2s")
	}
	return ""
}

func drainFrames(ch chan []byte, wait time.Duration) []string {
	time.Sleep(wait)
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func waitForClients(t *testing.T, b *Broker, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount never reached %d", want)
}

func TestSubscriberLifecycle(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount = %d before any subscriber", n)
	}
	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("ClientCount = %d after Subscribe", n)
	}
	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount = %d after Unsubscribe", n)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestPageUpdatedFrame(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishPageUpdated("Journal.md")

	got := recvFrame(t, ch)
	want := "event: page.updated\ndata: {\"path\":\"Journal.md\"}\n\n"
	if got != want {
		t.Errorf("frame = %q, want %q", got, want)
	}
}

func TestReloadThrottle(t *testing.T) {
	b := NewBroker(200 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishReload()
	b.PublishReload()

	frames := drainFrames(ch, 50*time.Millisecond)
	if len(frames) != 1 {
		t.Fatalf("frames inside throttle window = %d, want 1", len(frames))
	}
	if want := "event: site.reloaded\ndata: {}\n\n"; frames[0] != want {
		t.Errorf("frame = %q, want %q", frames[0], want)
	}

	// Once the window has passed the next reload goes out again.
	time.Sleep(250 * time.Millisecond)
	b.PublishReload()
	if got := recvFrame(t, ch); !strings.Contains(got, "site.reloaded") {
		t.Errorf("frame after window = %q", got)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Overrun the subscriber buffer; excess frames are dropped, not queued.
	for i := 0; i < 3*cap(ch); i++ {
		b.PublishPageUpdated("x.md")
	}
}

func TestServeHTTP_StreamsUntilDisconnect(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.ServeHTTP(rec, req)
	}()

	waitForClients(t, b, 1)

	// When a second subscriber sees the frame, the handler's channel has it
	// too; the short sleep lets the handler write it out.
	observer := b.Subscribe()
	b.PublishPageUpdated("Journal.md")
	recvFrame(t, observer)
	time.Sleep(50 * time.Millisecond)
	b.Unsubscribe(observer)

	cancel()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: page.updated\ndata: {\"path\":\"Journal.md\"}\n\n") {
		t.Errorf("streamed body = %q", body)
	}

	waitForClients(t, b, 0)
}

func TestClose_ReleasesSubscribers(t *testing.T) {
	b := NewBroker(time.Second)
	ch := b.Subscribe()

	b.Close()
	b.Close() // idempotent

	// Close waits for the loop to finish, so the channel is already closed.
	if _, ok := <-ch; ok {
		t.Fatal("subscriber channel should be closed")
	}
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount = %d after Close", n)
	}

	// Publishing after Close is a no-op rather than a panic or a hang.
	b.PublishPageUpdated("x.md")
	b.PublishReload()

	// New subscribers get an already-closed channel.
	if _, ok := <-b.Subscribe(); ok {
		t.Fatal("Subscribe after Close should hand back a closed channel")
	}
}
