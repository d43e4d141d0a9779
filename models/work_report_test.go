package models

import "testing"

func TestExpandSubmission(t *testing.T) {
	in := ReportSubmissionInput{
		BookingCode:    "AFC-1001",
		CustomerName:   "Budi Santoso",
		CustomerPhone:  "081234567890",
		Address:        "Jl. Melati No. 5",
		Cluster:        "Green Garden",
		ServiceType:    "cuci",
		TechnicianCode: "A1",
		Units: []ReportUnitInput{
			{Brand: "Daikin", ConditionNotes: "normal", PhotoURLs: []string{"a.jpg"}},
			{Brand: "Sharp", ConditionNotes: "freon kurang", PhotoURLs: []string{"b.jpg", "c.jpg"}},
			{Brand: "LG"},
		},
	}

	rows := ExpandSubmission(in)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	for i, row := range rows {
		if row.BookingCode != in.BookingCode {
			t.Errorf("row %d: booking code = %q, expected %q", i, row.BookingCode, in.BookingCode)
		}
		if row.CustomerName != in.CustomerName || row.CustomerPhone != in.CustomerPhone {
			t.Errorf("row %d: customer context not copied", i)
		}
		if row.Status != ReportStatusPendingApproval {
			t.Errorf("row %d: status = %q, expected pending_approval", i, row.Status)
		}
		if row.UnitNumber != i+1 {
			t.Errorf("row %d: unit number = %d, expected %d", i, row.UnitNumber, i+1)
		}
	}

	if rows[0].Brand != "Daikin" || rows[1].Brand != "Sharp" || rows[2].Brand != "LG" {
		t.Error("per-unit brand not carried over")
	}
	if len(rows[1].PhotoURLs) != 2 {
		t.Errorf("row 1: photo count = %d, expected 2", len(rows[1].PhotoURLs))
	}
	if rows[0].ReferralCounted {
		t.Error("fresh rows must start unclaimed")
	}
}

func TestExpandSubmissionExplicitUnitNumbers(t *testing.T) {
	in := ReportSubmissionInput{
		BookingCode: "AFC-1002",
		Units: []ReportUnitInput{
			{UnitNumber: 4, Brand: "Panasonic"},
			{UnitNumber: 2, Brand: "Gree"},
		},
	}

	rows := ExpandSubmission(in)
	if rows[0].UnitNumber != 4 {
		t.Errorf("explicit unit number overridden: got %d", rows[0].UnitNumber)
	}
	if rows[1].UnitNumber != 2 {
		t.Errorf("explicit unit number overridden: got %d", rows[1].UnitNumber)
	}
}

func TestExpandSubmissionEmpty(t *testing.T) {
	rows := ExpandSubmission(ReportSubmissionInput{BookingCode: "AFC-1003"})
	if len(rows) != 0 {
		t.Errorf("expected no rows for empty unit list, got %d", len(rows))
	}
}
