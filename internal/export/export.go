// Package export serializes the analyzed record set into downloadable CSV
// and JSON artifacts. Both encodings are pure functions of the analyzed set
// and the column schema; repeated calls produce byte-identical output.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dharsanguruparan/JobSift/internal/faults"
	"github.com/dharsanguruparan/JobSift/internal/model"
)

// ErrNothingToExport is returned when no record has completed analysis.
var ErrNothingToExport = &faults.ValidationError{Reason: "no analyzed records to export"}

// FileName returns the dated artifact name for the given format.
func FileName(now time.Time, format string) string {
	return fmt.Sprintf("job-analysis-results-%s.%s", now.UTC().Format("2006-01-02"), format)
}

// EncodeCSV renders the analyzed subset as CSV. Every field is wrapped in
// double quotes with embedded quotes doubled; missing values render as empty
// strings.
func EncodeCSV(recs []model.TrackedRecord) ([]byte, error) {
	analyzed := analyzedOnly(recs)
	if len(analyzed) == 0 {
		return nil, ErrNothingToExport
	}
	var b strings.Builder
	writeRow(&b, Columns)
	for _, rec := range analyzed {
		writeRow(&b, Row(rec))
	}
	return []byte(b.String()), nil
}

// EncodeJSON renders the analyzed subset as a pretty-printed array of
// objects keyed by the column names. Every object carries all columns.
func EncodeJSON(recs []model.TrackedRecord) ([]byte, error) {
	analyzed := analyzedOnly(recs)
	if len(analyzed) == 0 {
		return nil, ErrNothingToExport
	}
	rows := make([]map[string]string, 0, len(analyzed))
	for _, rec := range analyzed {
		rows = append(rows, RowMap(rec))
	}
	return json.MarshalIndent(rows, "", "  ")
}

// Row returns the record's values aligned with Columns.
func Row(rec model.TrackedRecord) []string {
	fields := rec.Payload.Fields()
	out := make([]string, 0, len(Columns))
	for _, col := range Columns {
		out = append(out, value(rec, fields, col))
	}
	return out
}

// RowMap returns the record's values keyed by column name, with every
// column present.
func RowMap(rec model.TrackedRecord) map[string]string {
	fields := rec.Payload.Fields()
	out := make(map[string]string, len(Columns))
	for _, col := range Columns {
		out[col] = value(rec, fields, col)
	}
	return out
}

func analyzedOnly(recs []model.TrackedRecord) []model.TrackedRecord {
	out := make([]model.TrackedRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.Analyzed() {
			out = append(out, rec)
		}
	}
	return out
}

func value(rec model.TrackedRecord, fields map[string]any, col string) string {
	switch col {
	case "filename":
		return rec.FileName
	case "status":
		return string(rec.Status)
	case "analyzed_at":
		if rec.AnalyzedAt == nil {
			return ""
		}
		return rec.AnalyzedAt.UTC().Format(time.RFC3339)
	}
	return stringify(fields[col])
}

// stringify flattens a payload value for tabular output without assuming
// the analyzer's schema.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// writeRow emits one CSV line with every field quoted. Embedded quotes are
// doubled so values containing quotes or commas survive a round trip.
func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
