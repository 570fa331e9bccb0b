package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/aquacharge/core/trajectory"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts csv or json in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Write encodes rec in the given format.
func Write(w io.Writer, f Format, rec trajectory.Record) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rec)
	case FormatJSON:
		return WriteJSON(w, rec)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteJSON writes the run record, steps and summary included, as indented
// JSON.
func WriteJSON(w io.Writer, rec trajectory.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

var csvHeader = []string{
	"run_id", "vessel_id", "index", "time", "decision", "requested_kwh",
	"transfer_kwh", "soc_before_kwh", "soc_after_kwh", "tier", "clamped",
}

// WriteCSV writes one row per step. The time column is the step start,
// counted from the run timestamp.
func WriteCSV(w io.Writer, rec trajectory.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	step := time.Duration(rec.StepMinutes * float64(time.Minute))
	for _, s := range rec.Steps {
		row := []string{
			rec.RunID,
			rec.VesselID,
			strconv.Itoa(s.Index),
			rec.Timestamp.Add(time.Duration(s.Index) * step).UTC().Format(time.RFC3339),
			s.Decision.String(),
			formatKWh(s.Requested),
			formatKWh(s.Transfer),
			formatKWh(s.SocBefore),
			formatKWh(s.SocAfter),
			s.Tier.String(),
			strconv.FormatBool(s.Clamped),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatKWh(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
