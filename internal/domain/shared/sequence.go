package shared

import (
	"context"
	"fmt"
	"time"
)

// NumberGenerator issues human-readable document numbers of the form
// PREFIX-YYYY-NNNNN, with the counter restarting every year.
type NumberGenerator interface {
	Next(ctx context.Context, prefix string, at time.Time) (string, error)
}

// FormatDocumentNumber formats a document number
func FormatDocumentNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}
