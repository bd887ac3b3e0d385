package eventbus

import (
	"testing"
	"time"
)

func TestBusFanOut(t *testing.T) {
	b := New()
	defer b.Close()
	s1 := b.Subscribe()
	s2 := b.Subscribe()

	b.Publish("step")

	for _, sub := range []<-chan Event{s1, s2} {
		select {
		case e := <-sub:
			if e != "step" {
				t.Fatalf("unexpected event %v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatal("unsubscribed channel should be closed")
	}
	b.Publish("ignored")
}

func TestBusDropsWhenFull(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()
	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(i)
	}
	// The buffer holds the first events; the overflow was dropped without
	// blocking the publisher.
	count := 0
	for {
		select {
		case <-sub:
			count++
		default:
			if count != subscriberBuffer {
				t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, count)
			}
			return
		}
	}
}

func TestBusClosedPublish(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	b.Publish("late")
	if _, ok := <-sub; ok {
		t.Fatal("channel should be closed after bus close")
	}
}
