package leaderboardservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	individualSheet = "Individual"
	teamSheet       = "Teams"
)

// ExportLeaderboard renders both leaderboards of a competition as XLSX.
func (s *LeaderboardService) ExportLeaderboard(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	stats, err := s.GetCompetitionStats(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboardWorkbook(stats)
}

// BuildLeaderboardWorkbook writes one sheet per leaderboard. Unranked rows
// keep empty rank and points cells.
func BuildLeaderboardWorkbook(stats *CompetitionStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", individualSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(teamSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	rows := [][]any{{"Rank", "Username", "Points"}}
	for _, e := range stats.Leaderboard.Individual {
		rows = append(rows, []any{rankCell(e.Rank), e.Username, pointsCell(e.Points)})
	}
	if err := writeRows(f, individualSheet, rows); err != nil {
		return nil, err
	}

	rows = [][]any{{"Rank", "Team", "Members", "Points per member"}}
	for _, e := range stats.Leaderboard.Team {
		rows = append(rows, []any{rankCell(e.Rank), e.Name, len(e.Members), pointsCell(e.Points)})
	}
	if err := writeRows(f, teamSheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func rankCell(rank *int) any {
	if rank == nil {
		return nil
	}
	return *rank
}

func pointsCell(points *decimal.Decimal) any {
	if points == nil {
		return nil
	}
	return points.InexactFloat64()
}
