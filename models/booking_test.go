package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     BookingStatus
		to       BookingStatus
		expected bool
	}{
		// Happy path lifecycle
		{"pending to confirmed", BookingStatusPending, BookingStatusConfirmed, true},
		{"confirmed to selesai", BookingStatusConfirmed, BookingStatusSelesai, true},
		{"confirmed to rescheduled", BookingStatusConfirmed, BookingStatusRescheduled, true},
		{"rescheduled back to confirmed", BookingStatusRescheduled, BookingStatusConfirmed, true},
		{"confirmed to menunggu sparepart", BookingStatusConfirmed, BookingStatusMenungguSparepart, true},
		{"sparepart back to confirmed", BookingStatusMenungguSparepart, BookingStatusConfirmed, true},

		// Report submission and approval path
		{"confirmed to menunggu konfirmasi", BookingStatusConfirmed, BookingStatusMenungguKonfirmasi, true},
		{"menunggu konfirmasi to selesai", BookingStatusMenungguKonfirmasi, BookingStatusSelesai, true},
		{"menunggu konfirmasi to ditolak", BookingStatusMenungguKonfirmasi, BookingStatusDitolak, true},

		// Complaint loop
		{"selesai to komplain", BookingStatusSelesai, BookingStatusKomplain, true},
		{"komplain to confirmed", BookingStatusKomplain, BookingStatusConfirmed, true},
		{"komplain to menunggu konfirmasi", BookingStatusKomplain, BookingStatusMenungguKonfirmasi, true},
		{"komplain to selesai", BookingStatusKomplain, BookingStatusSelesai, true},

		// Rejection recovery
		{"ditolak back to confirmed", BookingStatusDitolak, BookingStatusConfirmed, true},

		// Disallowed jumps
		{"pending straight to selesai", BookingStatusPending, BookingStatusSelesai, false},
		{"pending to komplain", BookingStatusPending, BookingStatusKomplain, false},
		{"selesai back to confirmed", BookingStatusSelesai, BookingStatusConfirmed, false},
		{"selesai cannot be rejected", BookingStatusSelesai, BookingStatusDitolak, false},
		{"selesai to pending", BookingStatusSelesai, BookingStatusPending, false},
		{"ditolak to selesai", BookingStatusDitolak, BookingStatusSelesai, false},
		{"no self transition", BookingStatusConfirmed, BookingStatusConfirmed, false},

		// Soft delete reachable from everywhere except deleted
		{"pending to deleted", BookingStatusPending, BookingStatusDeleted, true},
		{"selesai to deleted", BookingStatusSelesai, BookingStatusDeleted, true},
		{"ditolak to deleted", BookingStatusDitolak, BookingStatusDeleted, true},
		{"deleted to deleted", BookingStatusDeleted, BookingStatusDeleted, false},

		// Deleted is terminal
		{"deleted to confirmed", BookingStatusDeleted, BookingStatusConfirmed, false},
		{"deleted to pending", BookingStatusDeleted, BookingStatusPending, false},

		// Unknown statuses never transition
		{"unknown from", BookingStatus("selesai_2"), BookingStatusConfirmed, false},
		{"unknown to", BookingStatusConfirmed, BookingStatus("done"), false},
		{"empty from", BookingStatus(""), BookingStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("CanTransition(%q, %q) = %v, expected %v",
					tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusRescheduled,
		BookingStatusMenungguKonfirmasi, BookingStatusMenungguSparepart,
		BookingStatusKomplain, BookingStatusDitolak, BookingStatusSelesai,
		BookingStatusDeleted,
	} {
		if !ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%q) = false, expected true", s)
		}
	}

	for _, s := range []BookingStatus{"", "SELESAI", "done", "cancelled"} {
		if ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%q) = true, expected false", s)
		}
	}
}

func TestActiveScheduleStatuses(t *testing.T) {
	active := map[BookingStatus]bool{}
	for _, s := range ActiveScheduleStatuses {
		active[s] = true
	}

	// Completed and deleted visits stay off the schedule.
	if active[BookingStatusSelesai] {
		t.Error("selesai must not appear on the schedule")
	}
	if active[BookingStatusDeleted] {
		t.Error("deleted must not appear on the schedule")
	}
	if active[BookingStatusDitolak] {
		t.Error("ditolak must not appear on the schedule")
	}

	// Everything still in flight is shown.
	for _, s := range []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusRescheduled,
		BookingStatusMenungguKonfirmasi, BookingStatusMenungguSparepart,
		BookingStatusKomplain,
	} {
		if !active[s] {
			t.Errorf("%q should appear on the schedule", s)
		}
	}
}

func TestBookingIsActive(t *testing.T) {
	tests := []struct {
		status   BookingStatus
		expected bool
	}{
		{BookingStatusPending, true},
		{BookingStatusConfirmed, true},
		{BookingStatusKomplain, true},
		{BookingStatusSelesai, false},
		{BookingStatusDitolak, false},
		{BookingStatusDeleted, false},
	}

	for _, tt := range tests {
		b := Booking{Status: tt.status}
		if b.IsActive() != tt.expected {
			t.Errorf("Booking{Status: %q}.IsActive() = %v, expected %v",
				tt.status, b.IsActive(), tt.expected)
		}
	}
}
