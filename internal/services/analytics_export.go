package services

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/scoring"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Summary"
	attemptsSheet = "Attempts"
)

var (
	summaryHeaders = []string{
		"User ID", "Name", "Email", "Quiz ID", "Quiz", "Total Attempts", "Passed Attempts",
		"Best Score", "Average Score", "Attempts To Pass", "Currently Passed", "First Pass Date",
	}
	attemptsHeaders = []string{
		"Attempt ID", "User ID", "Quiz ID", "Attempt Number", "Score", "Passed", "Time Taken (s)", "Completed At",
	}
)

// writeAssessmentWorkbook renders the report as an xlsx file with one Summary
// row per (user, quiz) group and one Attempts row per attempt.
func writeAssessmentWorkbook(stats *AssessmentStatsResponse, attempts []models.QuizAttempt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(attemptsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	summary := make([][]interface{}, 0, len(stats.UserQuizStats))
	for _, row := range stats.UserQuizStats {
		var attemptsToPass interface{} = ""
		if row.AttemptsToPass != nil {
			attemptsToPass = *row.AttemptsToPass
		}
		firstPass := ""
		if row.FirstPassDate != nil {
			firstPass = row.FirstPassDate.UTC().Format(time.RFC3339)
		}
		summary = append(summary, []interface{}{
			row.User.ID, row.User.Name, row.User.Email, row.Quiz.ID, row.Quiz.Title,
			row.TotalAttempts, row.PassedAttempts, row.BestScore, row.AverageScore,
			attemptsToPass, row.CurrentlyPassed, firstPass,
		})
	}
	if err := writeSheet(f, summarySheet, summaryHeaders, summary); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(attempts))
	for _, a := range scoring.Chronological(attempts) {
		var taken interface{} = ""
		if a.TimeTaken != nil {
			taken = *a.TimeTaken
		}
		rows = append(rows, []interface{}{
			a.ID, a.UserID, a.QuizID, a.AttemptNumber, scoring.Round2(a.Score), a.Passed,
			taken, a.CompletedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := writeSheet(f, attemptsSheet, attemptsHeaders, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}
	return nil
}
