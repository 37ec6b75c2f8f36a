package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestRecordIDPrefixes(t *testing.T) {
	cases := []struct {
		prefix string
		gen    func() string
	}{
		{"P-", NewProductID},
		{"U-", NewUserID},
		{"L-", NewLogID},
		{"R-", NewReportID},
	}
	for _, tc := range cases {
		id := tc.gen()
		if len(id) != len(tc.prefix)+36 || id[:len(tc.prefix)] != tc.prefix {
			t.Errorf("id %q does not match %sUUID shape", id, tc.prefix)
		}
		if id == tc.gen() {
			t.Errorf("%s generator repeated an id", tc.prefix)
		}
	}
}

func TestTransactionIDFormat(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^TRX-260901-[0-9A-Z]{6}$`)

	id := NewTransactionID(now)
	if !pattern.MatchString(id) {
		t.Errorf("NewTransactionID() = %q, want TRX-260901-XXXXXX", id)
	}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[NewTransactionID(now)] = true
	}
	if len(seen) < 95 {
		t.Errorf("only %d unique receipts out of 100", len(seen))
	}
}
