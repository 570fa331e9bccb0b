package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/aquacharge/core/bess"
	"github.com/kilianp07/aquacharge/core/model"
	"github.com/kilianp07/aquacharge/core/trajectory"
)

func sampleRecord() trajectory.Record {
	return trajectory.Record{
		RunID:       "run-1",
		VesselID:    "ferry-1",
		Timestamp:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		StepMinutes: 15,
		Steps: []bess.Step{
			{Index: 0, Decision: model.DecisionCharge, Requested: 2.5, Transfer: 2.5, SocBefore: 50, SocAfter: 52.5, Tier: model.TierNormal},
			{Index: 1, Decision: model.DecisionDischarge, Requested: -5, Transfer: -2.5, SocBefore: 22.5, SocAfter: 20, Tier: model.TierNormal, Clamped: true},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecord()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"run-1", "ferry-1", "0", "2025-06-01T08:00:00Z", "charge", "2.5", "2.5", "50", "52.5", "normal", "false"}, rows[1])
	assert.Equal(t, "2025-06-01T08:15:00Z", rows[2][3])
	assert.Equal(t, "-2.5", rows[2][6])
	assert.Equal(t, "true", rows[2][10])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRecord()))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "run-1", out["run_id"])
	steps, ok := out["steps"].([]any)
	require.True(t, ok)
	require.Len(t, steps, 2)
	first := steps[0].(map[string]any)
	assert.Equal(t, "charge", first["decision"])
	assert.Equal(t, "normal", first["tier"])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), sampleRecord()))
}
