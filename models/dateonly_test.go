package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOnlyUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"bare date", `"2026-02-14"`, "2026-02-14", false},
		{"rfc3339 timestamp", `"2026-02-14T09:30:00Z"`, "2026-02-14", false},
		{"wib timestamp before 07:00 keeps its local date", `"2026-02-14T00:30:00+07:00"`, "2026-02-14", false},
		{"wib timestamp late evening", `"2026-02-14T23:45:00+07:00"`, "2026-02-14", false},
		{"negative offset keeps its local date", `"2026-02-14T22:30:00-05:00"`, "2026-02-14", false},
		{"null", `null`, "0001-01-01", false},
		{"empty string", `""`, "0001-01-01", false},
		{"garbage", `"next tuesday"`, "", true},
		{"wrong layout", `"14/02/2026"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DateOnly
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := time.Time(d).Format("2006-01-02"); got != tt.expected {
				t.Errorf("got %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestDateOnlyMarshalJSON(t *testing.T) {
	d := DateOnly(time.Date(2026, 2, 14, 15, 4, 5, 0, time.UTC))
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"2026-02-14"` {
		t.Errorf("got %s, expected \"2026-02-14\"", b)
	}
}

func TestDateOnlyScan(t *testing.T) {
	var d DateOnly
	if err := d.Scan(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time.Time: %v", err)
	}
	if !d.SameDay(time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)) {
		t.Error("SameDay should ignore clock time")
	}

	if err := d.Scan("2026-03-02"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if err := d.Scan([]byte("2026-03-03")); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestDateOnlySameDay(t *testing.T) {
	d := DateOnly(time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC))
	if !d.SameDay(time.Date(2026, 5, 20, 18, 0, 0, 0, time.UTC)) {
		t.Error("same calendar day should match")
	}
	if d.SameDay(time.Date(2026, 5, 21, 0, 0, 0, 0, time.UTC)) {
		t.Error("different day should not match")
	}
	if d.SameDay(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)) {
		t.Error("different year should not match")
	}
}
