package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shiftboard/backend/internal/types"
	"github.com/xuri/excelize/v2"
)

func sampleReport() types.Report {
	return types.Report{
		ID:   "daily-1741600000000",
		Name: "Daily Report - 2025-03-10",
		Date: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		Type: types.ReportDaily,
		Data: []types.ReportRow{
			{Name: "Dana", Lateness: 12, Adherence: 98, Conformance: 98,
				LoggedTime: "7h 48m", WrapUpTime: "0h 15m", Leads: 6, Productivity: "76.9%"},
			{Name: "Morgan", Productivity: "0.0%",
				LoggedTime: "0h 0m", WrapUpTime: "0h 0m"},
		},
	}
}

func TestXLSXExport(t *testing.T) {
	data, err := NewXLSX().Export(sampleReport())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected workbook bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetName, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Agent" {
		t.Errorf("expected header Agent, got %q", got)
	}

	got, err = f.GetCellValue(sheetName, "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Dana" {
		t.Errorf("expected first row Dana, got %q", got)
	}

	got, err = f.GetCellValue(sheetName, "H2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "76.9%" {
		t.Errorf("expected productivity 76.9%%, got %q", got)
	}

	got, err = f.GetCellValue(sheetName, "A3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Morgan" {
		t.Errorf("expected second row Morgan, got %q", got)
	}
}

func TestXLSXFilename(t *testing.T) {
	x := NewXLSX()
	if got := x.Filename(sampleReport()); got != "daily-1741600000000.xlsx" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestNoopExport(t *testing.T) {
	data, err := NewNoop().Export(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Error("expected nil bytes from noop exporter")
	}
}

func TestNewSelectsByMode(t *testing.T) {
	if _, ok := New("xlsx").(*XLSX); !ok {
		t.Error("expected xlsx exporter")
	}
	if _, ok := New("none").(*Noop); !ok {
		t.Error("expected noop exporter")
	}
}
