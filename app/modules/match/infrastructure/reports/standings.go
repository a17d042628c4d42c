// Package reports renders match standings as XLSX workbooks.
package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
)

const standingsSheet = "Standings"

var standingsHeader = []any{"Rank", "Competitor", "Division", "Power Factor", "Points", "Percentage"}

// StandingsWriter renders standings workbooks.
type StandingsWriter struct{}

func NewStandingsWriter() *StandingsWriter {
	return &StandingsWriter{}
}

// Write renders the standings as a single-sheet workbook and streams it to w.
func (sw *StandingsWriter) Write(w io.Writer, standings *matchdto.MatchStandings) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(standingsSheet)
	if err != nil {
		return fmt.Errorf("failed to create standings sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	title := standings.Match
	if !standings.Date.IsZero() {
		title = fmt.Sprintf("%s (%s)", standings.Match, standings.Date.Format("2006-01-02"))
	}
	if err := f.SetCellValue(standingsSheet, "A1", title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.SetSheetRow(standingsSheet, "A2", &standingsHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range standings.Rows {
		cell := fmt.Sprintf("A%d", i+3)
		values := []any{row.Rank, row.Competitor, row.Division, row.PowerFactor, row.Points, row.Percentage}
		if err := f.SetSheetRow(standingsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write standings row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
