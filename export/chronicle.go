// Package export renders a run as a downloadable PDF chronicle.
package export

import (
	"fmt"
	"io"

	"agi_race/story"

	"github.com/jung-kurt/gofpdf"
)

// WriteChronicle writes the history of a run and its current state to w.
func WriteChronicle(w io.Writer, state story.GameState, history []story.HistoryEntry) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("AGI Arms Race - Project Chronicle", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Project Chimera: Chronicle", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, h := range history {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Turn %d", i+1), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(h.Story), "", "L", false)
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, tr("> "+h.Choice), "", "L", false)
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Current situation", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr(state.StoryText), "", "L", false)
	if state.Feedback != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, tr(state.Feedback), "", "L", false)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Project status", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, g := range state.Resources.Gauges() {
		pdf.CellFormat(60, 6, g.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d/100", g.Value), "", 1, "L", false, 0, "")
	}

	if state.IsGameOver {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, "SIMULATION END", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(state.OutcomeText), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
