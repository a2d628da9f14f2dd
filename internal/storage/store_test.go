package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/dissolve/internal/config"
	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/phase"
	"github.com/san-kum/dissolve/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0, Progress: 0, Primary: 0, Phase: phase.PauseStart, Direction: phase.Forward, Status: driver.Active},
			{Time: 1, Progress: 0.25, Primary: 0.25, Secondary: 0.5, Phase: phase.Transitioning, Direction: phase.Forward, Status: driver.Active},
			{Time: 2.5, Progress: 1, Primary: 1, Secondary: 2, Phase: phase.PauseEnd, Direction: phase.Forward, Status: driver.Active},
		},
		Metrics: map[string]float64{"peak": 1},
		Errors:  []error{sim.StepError{Time: 1, Step: 1, Wrapped: errors.New("boom")}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.GetPreset("burn")
	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "burn_") {
		t.Errorf("run id %q should start with preset name", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "burn" {
		t.Errorf("expected name 'burn', got %q", meta.Name)
	}
	if !meta.Secondary {
		t.Error("expected secondary flag")
	}
	if meta.Metrics["peak"] != 1 {
		t.Errorf("expected peak 1, got %f", meta.Metrics["peak"])
	}
	if len(meta.Errors) != 1 || !strings.Contains(meta.Errors[0], "boom") {
		t.Errorf("unexpected errors: %v", meta.Errors)
	}

	records, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	r := records[1]
	if r.Time != 1 || r.Primary != 0.25 || r.Secondary != 0.5 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Phase != "transitioning" || r.Direction != "forward" || r.Status != "active" {
		t.Errorf("unexpected labels %+v", r)
	}
	if records[2].Phase != "pause_end" {
		t.Errorf("expected pause_end, got %q", records[2].Phase)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, _ := st.Save(config.GetPreset("demo"), testResult())
	second, _ := st.Save(config.GetPreset("flash"), testResult())

	// stray entries are ignored
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.MkdirAll(filepath.Join(dir, "broken"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty list, got %d", len(runs))
	}
}

func TestLoadSamples_Malformed(t *testing.T) {
	dir := t.TempDir()
	runDir := filepath.Join(dir, "bad")
	os.MkdirAll(runDir, 0755)
	data := strings.Join(samplesHeader, ",") + "\nabc,0,0,0,pause_start,forward,idle\n"
	os.WriteFile(filepath.Join(runDir, samplesFile), []byte(data), 0644)

	if _, err := New(dir).LoadSamples("bad"); err == nil {
		t.Error("expected parse error")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	st.Init()
	runID, err := st.Save(config.GetPreset("burn"), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, _ := st.Load(runID)
	records, _ := st.LoadSamples(runID)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, *meta, records); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Steps != 3 || len(out.Primary) != 3 || len(out.Secondary) != 3 {
		t.Errorf("unexpected export shape: %+v", out)
	}
	if out.Secondary[2] != 2 {
		t.Errorf("expected secondary 2, got %f", out.Secondary[2])
	}
}

func TestExportJSON_NoSecondary(t *testing.T) {
	var buf bytes.Buffer
	records := []Record{{Time: 0, Primary: 0.5, Phase: "transitioning"}}
	if err := ExportJSON(&buf, RunMetadata{ID: "x"}, records); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if strings.Contains(buf.String(), `"secondary":`) {
		t.Errorf("secondary should be omitted:\n%s", buf.String())
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	records := []Record{
		{Time: 0, Primary: 0, Phase: "pause_start"},
		{Time: 0.5, Primary: 0.25, Secondary: 1, Phase: "transitioning"},
	}
	if err := ExportCSV(&buf, records); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[2] != "0.500000,0.250000,1.000000,transitioning" {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestTraceToSVG(t *testing.T) {
	records := []Record{
		{Time: 0, Primary: 0, Secondary: 0},
		{Time: 1, Primary: 0.5, Secondary: 1.5},
		{Time: 2, Primary: 1, Secondary: 3},
	}
	svg := TraceToSVG(RecordTraces(records, true), []string{"#00ff88", "#ffaa00"}, 400, 200, 0)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths, got %d", strings.Count(svg, "<path"))
	}
	if !strings.Contains(svg, "#ffaa00") {
		t.Error("missing secondary color")
	}
}

func TestTraceToSVG_TooShort(t *testing.T) {
	if svg := TraceToSVG([][]Point{{{X: 0, Y: 0}}}, nil, 100, 100, 1); svg != "" {
		t.Error("expected empty output for a single point")
	}
}
