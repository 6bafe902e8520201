package sheets

import "context"

// Ports for outbound tabular-store adapters. Ranges use A1 notation with an
// explicit sheet name ("Plan!A1:G4"). Every call is a remote round-trip and
// may be retried by a wrapping decorator before a failure surfaces.
type (
	RangeReader interface {
		ReadRange(ctx context.Context, rng string) ([][]any, error)
	}

	RangeWriter interface {
		WriteRange(ctx context.Context, rng string, values [][]any) error
		// ClearRange blanks every cell in the range without touching
		// formatting or neighboring cells.
		ClearRange(ctx context.Context, rng string) error
	}

	// TabularStore is the full surface the engine needs from a spreadsheet.
	TabularStore interface {
		RangeReader
		RangeWriter
	}
)
