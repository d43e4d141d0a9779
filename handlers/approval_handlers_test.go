package handlers

import "testing"

func TestValidateRejectReason(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain reason", "foto tidak jelas", "foto tidak jelas", false},
		{"trims whitespace", "  unit salah  ", "unit salah", false},
		{"empty", "", "", true},
		{"only whitespace", "   \t\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRejectReason(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}
