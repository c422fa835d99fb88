// Package style provides the terminal printers used for user-facing
// output. Log output goes through pkg/logging; everything the operator
// is meant to read (reports, prompts, summaries) goes through here.
package style

import (
	"io"

	"github.com/pterm/pterm"
)

// Printers bundles the pterm prefix printers used for run reporting,
// bound to a single output writer so tests can capture the output.
type Printers struct {
	Info    *pterm.PrefixPrinter
	Success *pterm.PrefixPrinter
	Warning *pterm.PrefixPrinter
	Plain   *pterm.BasicTextPrinter
}

// NewPrinters creates printers writing to w.
func NewPrinters(w io.Writer) *Printers {
	return &Printers{
		Info:    pterm.Info.WithWriter(w),
		Success: pterm.Success.WithWriter(w),
		Warning: pterm.Warning.WithWriter(w),
		Plain:   pterm.DefaultBasicText.WithWriter(w),
	}
}
