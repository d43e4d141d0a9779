package handlers

import (
	"fmt"
	"testing"

	"github.com/AFCApps2025/afc-backend/models"
)

func TestDedupRingAdd(t *testing.T) {
	ring := newDedupRing(3)

	if !ring.Add("a") {
		t.Error("first add of a should report new")
	}
	if ring.Add("a") {
		t.Error("second add of a should report seen")
	}
	ring.Add("b")
	ring.Add("c")
	if ring.Len() != 3 {
		t.Fatalf("len = %d, expected 3", ring.Len())
	}

	// Adding a fourth id evicts the oldest.
	ring.Add("d")
	if ring.Len() != 3 {
		t.Fatalf("len after eviction = %d, expected 3", ring.Len())
	}
	if !ring.Add("a") {
		t.Error("a should have been evicted and count as new again")
	}
}

func TestDedupRingBounded(t *testing.T) {
	ring := newDedupRing(dedupCapacity)
	for i := 0; i < dedupCapacity*3; i++ {
		ring.Add(fmt.Sprintf("booking:%d", i))
	}
	if ring.Len() != dedupCapacity {
		t.Errorf("len = %d, expected cap %d", ring.Len(), dedupCapacity)
	}
}

func TestShouldNotifySkipsAlreadyRecordedRows(t *testing.T) {
	existing := map[string]bool{"AFC-3001": true}
	m := &NotificationMonitor{
		seen: newDedupRing(dedupCapacity),
		recorded: func(ntype models.NotificationType, bookingCode string) bool {
			return existing[bookingCode]
		},
	}

	// A row the create handler already notified about stays silent.
	if m.shouldNotify("booking:id-1", models.NotificationTypeBookingCreated, "AFC-3001") {
		t.Error("row with an existing notification must not be re-notified")
	}

	// A row that arrived outside the API gets picked up exactly once.
	if !m.shouldNotify("booking:id-2", models.NotificationTypeBookingCreated, "AFC-3002") {
		t.Error("externally inserted row should be notified")
	}
	if m.shouldNotify("booking:id-2", models.NotificationTypeBookingCreated, "AFC-3002") {
		t.Error("second scan of the same row must be deduped by the ring")
	}
}
