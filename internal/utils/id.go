package utils

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewProductID returns a fresh product record ID.
func NewProductID() string { return "P-" + uuid.NewString() }

// NewUserID returns a fresh staff record ID.
func NewUserID() string { return "U-" + uuid.NewString() }

// NewLogID returns a fresh audit log record ID.
func NewLogID() string { return "L-" + uuid.NewString() }

// NewReportID returns a fresh report snapshot ID.
func NewReportID() string { return "R-" + uuid.NewString() }

// NewTransactionID builds a receipt number like TRX-260901-4F7K2M. The
// date prefix keeps receipts roughly chronological and human readable;
// the random suffix makes them unique.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TRX-%s-%s", now.Format("060102"), randBase36(6))
}

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails on a broken platform; receipts need
		// practical uniqueness, so fall back to the clock.
		nano := time.Now().UnixNano()
		for i := range buf {
			buf[i] = byte(nano >> (8 * (i % 8)))
		}
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(out)
}
