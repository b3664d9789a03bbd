package notify

import (
	"testing"
	"time"
)

func TestFeed_PushAndActive(t *testing.T) {
	feed := NewFeed(time.Minute)

	feed.Push(SeverityError, "resume failed")
	feed.Push(SeveritySuccess, "connected")

	active := feed.Active()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active notifications, got %d", len(active))
	}
	if active[0].Severity != SeverityError || active[0].Text != "resume failed" {
		t.Errorf("Unexpected first entry: %+v", active[0])
	}
	if active[1].Severity != SeveritySuccess {
		t.Errorf("Unexpected second entry: %+v", active[1])
	}
}

func TestFeed_EntriesDecay(t *testing.T) {
	feed := NewFeed(time.Second)
	current := time.Unix(1000, 0)
	feed.now = func() time.Time { return current }

	feed.Push(SeverityInfo, "old news")
	current = current.Add(2 * time.Second)
	feed.Push(SeverityWarning, "fresh")

	active := feed.Active()
	if len(active) != 1 {
		t.Fatalf("Expected the old entry to decay, got %d entries", len(active))
	}
	if active[0].Text != "fresh" {
		t.Errorf("Expected the fresh entry to survive, got %+v", active[0])
	}
}

func TestFeed_UpdatesNonBlocking(t *testing.T) {
	feed := NewFeed(time.Minute)

	// Overflow the updates buffer; Push must never stall the event loop.
	for i := 0; i < 50; i++ {
		feed.Push(SeverityInfo, "tick")
	}

	if len(feed.Active()) != 50 {
		t.Errorf("Expected all entries recorded, got %d", len(feed.Active()))
	}
}

func TestSeverity_String(t *testing.T) {
	cases := map[Severity]string{
		SeverityInfo:    "info",
		SeveritySuccess: "success",
		SeverityWarning: "warning",
		SeverityError:   "error",
		Severity(99):    "unknown",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}

func TestPresence(t *testing.T) {
	p := NewPresence()

	t.Run("disconnect then reconnect", func(t *testing.T) {
		p.MarkDisconnected("p1")
		if !p.IsDisconnected("p1") {
			t.Error("Expected p1 flagged after disconnect")
		}
		p.MarkReconnected("p1")
		if p.IsDisconnected("p1") {
			t.Error("Expected p1 unflagged after reconnect")
		}
	})

	t.Run("reconnect for unknown id is a no-op", func(t *testing.T) {
		p.MarkReconnected("never-seen")
		if len(p.Disconnected()) != 0 {
			t.Errorf("Expected empty set, got %v", p.Disconnected())
		}
	})

	t.Run("reset clears all flags", func(t *testing.T) {
		p.MarkDisconnected("p2")
		p.MarkDisconnected("p3")
		p.Reset()
		if len(p.Disconnected()) != 0 {
			t.Errorf("Expected empty set after reset, got %v", p.Disconnected())
		}
	})
}
