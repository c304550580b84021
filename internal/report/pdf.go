// Package report renders finished sessions for sharing outside the app.
package report

import (
	"fmt"
	"io"
	"os"

	"breathwork/internal/storage"
	"breathwork/internal/ui/display"

	"github.com/go-pdf/fpdf"
)

const dateLayout = "2006-01-02 15:04"

// WritePDF renders record as a one-page PDF summary.
func WritePDF(writer io.Writer, record storage.SessionRecord) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Breathing session "+record.ID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Breathing Session Results")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Started: %s", record.StartedAt.Local().Format(dateLayout)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Finished: %s", record.FinishedAt.Local().Format(dateLayout)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Rounds: %d, breaths per round: %d, breath cycle: %.1f s",
		record.Config.RoundsTarget, record.Config.BreathsPerRound, record.Config.BreathCycleSeconds))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Maximum Breath Hold Time")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, display.FormatSeconds(record.MaxHold))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Round Results")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	if len(record.RoundResults) == 0 {
		pdf.Cell(0, 8, "  - No rounds recorded.")
		pdf.Ln(6)
	}
	for _, line := range display.ResultLines(record.RoundResults) {
		pdf.Cell(0, 8, line)
		pdf.Ln(6)
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// WritePDFFile renders record into path.
func WritePDFFile(path string, record storage.SessionRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WritePDF(file, record); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
