package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"healthsync/internal/domain"
)

var appointmentExportHeader = []string{
	"ID", "Name", "Phone", "Email", "Doctor", "Specialization", "Date", "Time", "Reason", "Status", "Created At",
}

var reportExportHeader = []string{
	"ID", "Name", "Type", "Date", "Size", "Size (bytes)",
}

// ExportService renders collections as xlsx workbooks
type ExportService struct {
	reports      *ReportService
	appointments *AppointmentService
}

func NewExportService(reports *ReportService, appointments *AppointmentService) *ExportService {
	return &ExportService{reports: reports, appointments: appointments}
}

func (s *ExportService) Appointments(ctx context.Context) ([]byte, error) {
	appts, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(appts))
	for _, a := range appts {
		var doctor, spec string
		if d, ok := domain.FindDoctor(a.Doctor); ok {
			doctor, spec = d.Name, d.Specialization
		}
		rows = append(rows, []any{a.ID, a.Name, a.Phone, a.Email, doctor, spec, a.Date, a.Time, a.Reason, a.Status, a.CreatedAt})
	}
	return buildWorkbook("Appointments", appointmentExportHeader, []float64{38, 20, 14, 28, 20, 20, 12, 8, 40, 12, 26}, rows)
}

func (s *ExportService) Reports(ctx context.Context) ([]byte, error) {
	list, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(list))
	for _, f := range list {
		rows = append(rows, []any{f.ID, f.Name, f.Type, f.Date, domain.FormatFileSize(f.Size), f.Size})
	}
	return buildWorkbook("Reports", reportExportHeader, []float64{38, 32, 24, 12, 12, 14}, rows)
}

// buildWorkbook writes one sheet with a bold header row followed by rows in order
func buildWorkbook(sheetName string, headers []string, widths []float64, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
