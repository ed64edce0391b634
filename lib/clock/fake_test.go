// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFakeNow(t *testing.T) {
	c := Fake(testEpoch)
	if got := c.Now(); !got.Equal(testEpoch) {
		t.Errorf("Now() = %v, want %v", got, testEpoch)
	}

	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(testEpoch.Add(90 * time.Second)) {
		t.Errorf("Now() after Advance = %v, want %v", got, testEpoch.Add(90*time.Second))
	}
}

func TestFakeAfterFiresOnAdvance(t *testing.T) {
	c := Fake(testEpoch)
	ch := c.After(30 * time.Second)

	select {
	case <-ch:
		t.Fatal("After channel fired before Advance")
	default:
	}

	c.Advance(29 * time.Second)
	select {
	case <-ch:
		t.Fatal("After channel fired before its deadline")
	default:
	}

	c.Advance(time.Second)
	select {
	case fired := <-ch:
		if !fired.Equal(testEpoch.Add(30 * time.Second)) {
			t.Errorf("fire time = %v, want %v", fired, testEpoch.Add(30*time.Second))
		}
	default:
		t.Fatal("After channel did not fire at its deadline")
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	c := Fake(testEpoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}
}

func TestFakeTickerFiresPerInterval(t *testing.T) {
	c := Fake(testEpoch)
	ticker := c.NewTicker(10 * time.Second)
	defer ticker.Stop()

	c.Advance(10 * time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after one interval")
	}

	// An advance spanning three intervals delivers at most the channel
	// capacity of one tick; the rest are dropped, matching time.Ticker.
	c.Advance(30 * time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after spanning advance")
	}
	select {
	case <-ticker.C:
		t.Fatal("ticker queued more ticks than its channel capacity")
	default:
	}
}

func TestFakeTickerStop(t *testing.T) {
	c := Fake(testEpoch)
	ticker := c.NewTicker(5 * time.Second)
	ticker.Stop()

	c.Advance(time.Minute)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}

	if got := c.PendingCount(); got != 0 {
		t.Errorf("PendingCount after Stop = %d, want 0", got)
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	c := Fake(testEpoch)

	registered := make(chan struct{})
	go func() {
		ch := c.After(time.Second)
		close(registered)
		<-ch
	}()

	c.WaitForTimers(1)
	select {
	case <-registered:
	default:
		t.Fatal("WaitForTimers returned before the timer was registered")
	}
	c.Advance(time.Second)
}

func TestFakeAdvanceFiresAllExpired(t *testing.T) {
	c := Fake(testEpoch)

	first := c.After(10 * time.Second)
	second := c.After(20 * time.Second)

	c.Advance(30 * time.Second)

	select {
	case <-first:
	default:
		t.Fatal("first waiter did not fire")
	}
	select {
	case <-second:
	default:
		t.Fatal("second waiter did not fire")
	}
	if got := c.PendingCount(); got != 0 {
		t.Errorf("PendingCount after firing = %d, want 0", got)
	}
}
