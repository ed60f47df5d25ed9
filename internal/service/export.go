// internal/service/export.go
package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	campaignSheet = "Campaigns"
	summarySheet  = "Summary"
)

var exportColumns = []string{
	"Campaign", "Type", "Status", "Sent", "Recipients", "Opened", "Clicked", "Open Rate", "Click Rate", "Revenue",
}

// Exporter writes a dashboard view as an xlsx workbook.
type Exporter struct{}

func (Exporter) Export(w io.Writer, view View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), campaignSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(campaignSheet, cell, col)
	}
	last, _ := excelize.ColumnNumberToName(len(exportColumns))
	f.SetCellStyle(campaignSheet, "A1", last+"1", headerStyle)
	f.SetColWidth(campaignSheet, "A", "A", 30)

	for i, r := range view.Rows {
		row := i + 2
		values := []any{
			r.Name,
			r.Channel.Label(),
			string(r.Status),
			r.SentLabel(),
			r.Recipients,
			r.Opened,
			r.Clicked,
			r.OpenRate,
			r.ClickRate,
			r.RevenueLabel(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(campaignSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	summary := [][]any{
		{"Total Revenue", view.Summary.TotalRevenue.StringFixed(2)},
		{"Total Recipients", view.Summary.TotalRecipients},
		{"Avg. Open Rate", FormatRate(view.Summary.AvgOpenRate)},
		{"Active Campaigns", view.Summary.ActiveCampaigns},
	}
	for i, line := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
