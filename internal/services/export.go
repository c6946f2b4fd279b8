package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Workbook sheet names
const (
	LogSheet     = "OJT Log"
	SummarySheet = "Summary"
)

var logHeader = []any{"Date Performed", "Title", "Category", "Status", "Hours Rendered", "Department", "Supervisor", "Remarks"}

// ExportTasks writes a user's tasks as an xlsx OJT log with a totals row,
// plus a summary sheet with the progress figures.
func ExportTasks(db *gorm.DB, userID uint64, opts ProgressOptions, w io.Writer) error {
	tasks, err := ListTasks(db, TaskFilter{UserID: userID})
	if err != nil {
		return err
	}
	progress, err := GetProgress(db, userID, opts)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LogSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(LogSheet, "A1", &logHeader); err != nil {
		return err
	}
	var total float64
	for i, t := range tasks {
		performed := ""
		if t.DatePerformed != nil {
			performed = t.DatePerformed.String()
		}
		row := []any{performed, t.Title, t.CategoryName, t.StatusName, t.HoursRendered, t.Department, t.Supervisor, t.Remarks}
		if err := f.SetSheetRow(LogSheet, cellName(1, i+2), &row); err != nil {
			return err
		}
		total += t.HoursRendered
	}
	totalRow := len(tasks) + 2
	if err := f.SetCellValue(LogSheet, cellName(4, totalRow), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(LogSheet, cellName(5, totalRow), total); err != nil {
		return err
	}
	for _, r := range []int{1, totalRow} {
		if err := f.SetRowStyle(LogSheet, r, r, bold); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(LogSheet, "A", "A", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(LogSheet, "B", "B", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(LogSheet, "F", "H", 24); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Total Tasks", progress.Overall.Total},
		{"Completed", progress.Overall.Completed},
		{"In Progress", progress.Overall.InProgress},
		{"Pending", progress.Overall.Pending},
		{"Completion %", progress.Overall.CompletionPercentage},
		{"Hours Rendered", progress.Hours.Rendered},
		{"Hours Required", progress.Hours.Required},
		{"Overdue", progress.Overdue},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(SummarySheet, cellName(1, i+1), &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 18); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
