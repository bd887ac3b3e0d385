package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chargesim/chargesim/core/profile"
)

func sampleSteps() []profile.StepRecord {
	return []profile.StepRecord{
		{Step: 0, Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), AggregateKW: 11, EnergyKWh: 11, Active: 1},
		{Step: 1, Time: time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), AggregateKW: 8, EnergyKWh: 8, Active: 1, Queued: 1},
	}
}

func TestWriteStepsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStepsCSV(&buf, sampleSteps()))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, []string{"step", "time", "aggregate_kw", "energy_kwh", "active", "queued"}, records[0])
	require.Equal(t, "11", records[1][2])
	require.Equal(t, "1", records[2][5])
}

func TestWriteStepsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStepsJSON(&buf, sampleSteps()))

	var got []profile.StepRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, 11.0, got[0].AggregateKW)
}

func TestWriteSessionsCSV(t *testing.T) {
	sessions := []profile.SessionSummary{
		{EventID: 1, Vehicle: "Generic EV", PointID: "cp-0", DepartedStep: 4, InitialSoC: 0.2, FinalSoC: 0.8, TargetSoC: 0.8, EnergyKWh: 30, TargetReached: true},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSessionsCSV(&buf, sessions))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "true", records[1][9])
	require.Equal(t, "30", records[1][8])
}
