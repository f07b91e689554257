package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_SubscribeReceivesMatchingType(t *testing.T) {
	b := NewBus(16)
	b.Start()
	defer b.Stop()

	var mu sync.Mutex
	var got []Event
	b.Subscribe(ChannelAdded, func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	b.Publish(NewChannelEvent(ChannelAdded, "finance"))
	b.Publish(NewChannelEvent(ChannelRemoved, "sports"))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if got[0].ChannelType != "finance" {
		t.Fatalf("unexpected event: %+v", got[0])
	}
}

func TestBus_SubscribeAllReceivesEverything(t *testing.T) {
	b := NewBus(16)
	b.Start()
	defer b.Stop()

	var mu sync.Mutex
	count := 0
	b.SubscribeAll(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	b.Publish(NewChannelEvent(ChannelAdded, "finance"))
	b.Publish(NewStreamStatusEvent("connected"))
	b.Publish(Event{Type: PreferencesUpdated})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 3
	})
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus(16)
	b.Start()
	defer b.Stop()

	var mu sync.Mutex
	count := 0
	unsub := b.Subscribe(ChannelUpdated, func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	b.Publish(NewChannelEvent(ChannelUpdated, "finance"))
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})

	unsub()
	b.Publish(NewChannelEvent(ChannelUpdated, "finance"))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("handler called after unsubscribe: %d", count)
	}
}

func TestBus_HandlerPanicDoesNotKillDispatch(t *testing.T) {
	b := NewBus(16)
	b.Start()
	defer b.Stop()

	var mu sync.Mutex
	survived := false
	b.SubscribeAll(func(e Event) {
		panic("bad handler")
	})
	b.SubscribeAll(func(e Event) {
		mu.Lock()
		survived = true
		mu.Unlock()
	})

	b.Publish(Event{Type: ChannelsReplaced})
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return survived
	})
}

func TestBus_StopDrainsPending(t *testing.T) {
	b := NewBus(64)

	var mu sync.Mutex
	count := 0
	b.SubscribeAll(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	for i := 0; i < 10; i++ {
		b.Publish(Event{Type: LogMessage})
	}
	b.Start()
	b.Stop()

	mu.Lock()
	defer mu.Unlock()
	if count != 10 {
		t.Fatalf("expected 10 events drained, got %d", count)
	}
}

func TestEventType_String(t *testing.T) {
	if ChannelAdded.String() == "" {
		t.Fatal("expected non-empty name")
	}
	if ChannelAdded.String() == ChannelRemoved.String() {
		t.Fatal("event type names must be distinct")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
