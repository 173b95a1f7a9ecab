// Package export serializes reports for download. The core only depends
// on the Exporter interface; the spreadsheet implementation is one of
// its collaborators.
package export

import "github.com/shiftboard/backend/internal/types"

// Exporter turns a report into a downloadable file
type Exporter interface {
	// Export renders the report. A nil byte slice means the exporter
	// produced nothing (the no-op case).
	Export(report types.Report) ([]byte, error)

	// ContentType is the MIME type of the rendered file
	ContentType() string

	// Filename suggests a download name for the report
	Filename(report types.Report) string
}

// Noop discards reports. Used when export is disabled.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Export(_ types.Report) ([]byte, error) { return nil, nil }
func (*Noop) ContentType() string                   { return "application/octet-stream" }
func (*Noop) Filename(report types.Report) string   { return report.ID }

// New selects an exporter by mode name ("xlsx" or anything else for noop)
func New(mode string) Exporter {
	if mode == "xlsx" {
		return NewXLSX()
	}
	return NewNoop()
}
