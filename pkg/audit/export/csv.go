package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"mercator-hq/roundtable/pkg/audit"
)

// Header is the CSV column order.
var Header = []string{
	"id", "session_id", "kind", "timestamp",
	"intent", "personas", "plan",
	"tool", "provider", "allowed", "reason", "call_count",
	"detail",
}

// CSVExporter writes records as CSV.
type CSVExporter struct {
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes one row per record. Personas are joined with ";".
func (e *CSVExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return audit.NewExportError("csv", 0, err)
		}
	}

	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(row(r)); err != nil {
			return audit.NewExportError("csv", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return audit.NewExportError("csv", len(records), err)
	}
	return nil
}

func row(r *audit.Record) []string {
	ts := ""
	if !r.Timestamp.IsZero() {
		ts = r.Timestamp.Format(time.RFC3339Nano)
	}
	return []string{
		r.ID,
		r.SessionID,
		string(r.Kind),
		ts,
		r.Intent,
		strings.Join(r.Personas, ";"),
		r.Plan,
		r.Tool,
		r.Provider,
		strconv.FormatBool(r.Allowed),
		r.Reason,
		strconv.Itoa(r.CallCount),
		r.Detail,
	}
}
