package export

import (
	"context"
	"fmt"
	"io"

	"mercator-hq/roundtable/pkg/audit"
)

// Exporter writes a batch of records to w.
type Exporter interface {
	Export(ctx context.Context, records []*audit.Record, w io.Writer) error
}

// ForFormat returns the exporter for "json", "ndjson" or "csv".
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "json":
		return NewJSONExporter(true), nil
	case "ndjson":
		return &NDJSONExporter{}, nil
	case "csv":
		return NewCSVExporter(true), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want json, ndjson or csv)", format)
	}
}
