package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/AFCApps2025/afc-backend/models"
)

func sampleBooking() models.Booking {
	return models.Booking{
		BookingCode:    "AFC-2001",
		CustomerName:   "Siti Rahma",
		CustomerPhone:  "081298765432",
		VisitDate:      models.DateOnly(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)),
		VisitTime:      "10:00",
		TechnicianCode: "B1",
	}
}

func TestComposeConfirmMessage(t *testing.T) {
	msg := ComposeConfirmMessage(sampleBooking())

	for _, want := range []string{"Siti Rahma", "AFC-2001", "10-04-2026", "10:00", "B1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("confirm message missing %q:\n%s", want, msg)
		}
	}
}

func TestComposeRescheduleMessage(t *testing.T) {
	b := sampleBooking()
	b.RescheduleNote = "teknisi sakit"
	msg := ComposeRescheduleMessage(b)

	for _, want := range []string{"AFC-2001", "10-04-2026", "teknisi sakit"} {
		if !strings.Contains(msg, want) {
			t.Errorf("reschedule message missing %q:\n%s", want, msg)
		}
	}

	// Without a note the Catatan clause is omitted entirely.
	b.RescheduleNote = ""
	msg = ComposeRescheduleMessage(b)
	if strings.Contains(msg, "Catatan") {
		t.Errorf("reschedule message should omit empty note:\n%s", msg)
	}
}

func TestComposeApprovalMessage(t *testing.T) {
	reports := []models.WorkReport{
		{BookingCode: "AFC-2001", CustomerName: "Siti Rahma", UnitNumber: 1, Brand: "Daikin", ModelSpec: "FTV20", ConditionNotes: "sudah dicuci"},
		{BookingCode: "AFC-2001", CustomerName: "Siti Rahma", UnitNumber: 2, Brand: "Sharp"},
	}

	msg := ComposeApprovalMessage("AFC-2001", reports)

	for _, want := range []string{"Siti Rahma", "AFC-2001", "Unit 1", "Daikin FTV20", "sudah dicuci", "Unit 2", "Sharp"} {
		if !strings.Contains(msg, want) {
			t.Errorf("approval message missing %q:\n%s", want, msg)
		}
	}
}

func TestComposeApprovalMessageNoReports(t *testing.T) {
	msg := ComposeApprovalMessage("AFC-2002", nil)
	if !strings.Contains(msg, "AFC-2002") {
		t.Errorf("approval message missing booking code:\n%s", msg)
	}
}

func TestComposeRejectionMessage(t *testing.T) {
	reports := []models.WorkReport{
		{BookingCode: "AFC-2001", CustomerName: "Siti Rahma", UnitNumber: 1},
	}

	msg := ComposeRejectionMessage("AFC-2001", "foto unit tidak jelas", reports)

	for _, want := range []string{"Siti Rahma", "AFC-2001", "foto unit tidak jelas"} {
		if !strings.Contains(msg, want) {
			t.Errorf("rejection message missing %q:\n%s", want, msg)
		}
	}
}
