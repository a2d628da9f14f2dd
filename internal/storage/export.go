package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Steps   int         `json:"steps"`
	Times   []float64   `json:"times"`
	Primary []float64   `json:"primary"`
	// Secondary is omitted for runs without a secondary output.
	Secondary []float64 `json:"secondary,omitempty"`
	Phases    []string  `json:"phases"`
}

func NewExportData(meta RunMetadata, records []Record) ExportData {
	data := ExportData{
		Run:     meta,
		Steps:   len(records),
		Times:   make([]float64, len(records)),
		Primary: make([]float64, len(records)),
		Phases:  make([]string, len(records)),
	}
	if meta.Secondary {
		data.Secondary = make([]float64, len(records))
	}
	for i, r := range records {
		data.Times[i] = r.Time
		data.Primary[i] = r.Primary
		data.Phases[i] = r.Phase
		if meta.Secondary {
			data.Secondary[i] = r.Secondary
		}
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(meta, records))
}

// ExportCSV writes time, primary and secondary columns.
func ExportCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "primary", "secondary", "phase"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatFloat(r.Time, 'f', 6, 64),
			strconv.FormatFloat(r.Primary, 'f', 6, 64),
			strconv.FormatFloat(r.Secondary, 'f', 6, 64),
			r.Phase,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
