package model

import (
	"testing"
	"time"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestItemLogOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	returned := now.Add(-time.Hour)

	tests := []struct {
		name string
		log  ItemLog
		want bool
	}{
		{"outstanding past due", ItemLog{ExpectedReturnDate: now.Add(-time.Minute)}, true},
		{"outstanding not due", ItemLog{ExpectedReturnDate: now.Add(time.Minute)}, false},
		{"returned past due", ItemLog{ExpectedReturnDate: now.Add(-48 * time.Hour), ReturnedAt: &returned}, false},
	}

	for _, tt := range tests {
		if got := tt.log.Overdue(now); got != tt.want {
			t.Errorf("%s: Overdue() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidLogStatus(t *testing.T) {
	for _, s := range []string{LogStatusAll, LogStatusPending, LogStatusReturned, LogStatusOverdue} {
		if !ValidLogStatus(s) {
			t.Errorf("ValidLogStatus(%q) = false", s)
		}
	}
	if ValidLogStatus("pending") {
		t.Error("expected lowercase status to be rejected")
	}
}

func TestItemQuantityIssued(t *testing.T) {
	item := Item{QuantityTotal: 10, QuantityAvailable: 6}
	if got := item.QuantityIssued(); got != 4 {
		t.Errorf("QuantityIssued() = %d, want 4", got)
	}
}
