// Package export writes simulation results to CSV and JSON for downstream
// analysis tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/chargesim/chargesim/core/profile"
)

// WriteStepsJSON writes the load profile to w in JSON format.
func WriteStepsJSON(w io.Writer, steps []profile.StepRecord) error {
	enc := json.NewEncoder(w)
	return enc.Encode(steps)
}

// WriteSessionsJSON writes the session summaries to w in JSON format.
func WriteSessionsJSON(w io.Writer, sessions []profile.SessionSummary) error {
	enc := json.NewEncoder(w)
	return enc.Encode(sessions)
}

// WriteStepsCSV writes the load profile to w with one row per step.
func WriteStepsCSV(w io.Writer, steps []profile.StepRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "time", "aggregate_kw", "energy_kwh", "active", "queued"}); err != nil {
		return err
	}
	for _, s := range steps {
		rec := []string{
			strconv.Itoa(s.Step),
			s.Time.Format(time.RFC3339),
			formatFloat(s.AggregateKW),
			formatFloat(s.EnergyKWh),
			strconv.Itoa(s.Active),
			strconv.Itoa(s.Queued),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSessionsCSV writes the session summaries to w with one row per
// finished charging process.
func WriteSessionsCSV(w io.Writer, sessions []profile.SessionSummary) error {
	cw := csv.NewWriter(w)
	header := []string{"event_id", "vehicle", "point_id", "admitted_step", "departed_step", "initial_soc", "final_soc", "target_soc", "energy_kwh", "target_reached"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range sessions {
		rec := []string{
			strconv.FormatInt(s.EventID, 10),
			s.Vehicle,
			s.PointID,
			strconv.Itoa(s.AdmittedStep),
			strconv.Itoa(s.DepartedStep),
			formatFloat(s.InitialSoC),
			formatFloat(s.FinalSoC),
			formatFloat(s.TargetSoC),
			formatFloat(s.EnergyKWh),
			strconv.FormatBool(s.TargetReached),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
