package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/models"
)

// ExportReportsToExcel exports work reports within a date range to an
// xlsx download. Query params: from, to (YYYY-MM-DD, inclusive), plus
// the optional filters GetReports accepts (status, technician_code).
func ExportReportsToExcel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := config.DB.Model(&models.WorkReport{}).Order("created_at ASC")

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			http.Error(w, "invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		query = query.Where("created_at >= ?", t)
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			http.Error(w, "invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
	}
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if tech := q.Get("technician_code"); tech != "" {
		query = query.Where("technician_code = ?", tech)
	}

	var reports []models.WorkReport
	if err := query.Find(&reports).Error; err != nil {
		http.Error(w, "failed to load reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	excelFile, err := buildReportWorkbook(reports)
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	buffer, err := excelFile.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("work_reports_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

var reportExportColumns = []string{
	"Tanggal", "Kode Booking", "Nama Customer", "No. HP", "Alamat",
	"Cluster", "Merk AC", "Unit", "Jenis Pekerjaan", "Teknisi",
	"Status", "Disetujui Oleh", "Catatan",
}

// buildReportWorkbook renders the report rows into a styled worksheet.
func buildReportWorkbook(reports []models.WorkReport) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Laporan Pekerjaan"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", "Laporan Pekerjaan AFC")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)

	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for colIdx, header := range reportExportColumns {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		col := columnIndexToLetter(colIdx + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "CCCCCC", Style: 1},
			{Type: "right", Color: "CCCCCC", Style: 1},
			{Type: "top", Color: "CCCCCC", Style: 1},
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})

	for rowIdx, report := range reports {
		values := []interface{}{
			report.CreatedAt.Format("2006-01-02 15:04"),
			report.BookingCode,
			report.CustomerName,
			report.CustomerPhone,
			report.Address,
			report.Cluster,
			report.Brand,
			report.UnitNumber,
			report.ServiceType,
			report.TechnicianCode,
			string(report.Status),
			report.ApprovedBy,
			report.ConditionNotes,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	// Summary block below the data
	summaryRow := len(reports) + 7
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E7E6E6"},
			Pattern: 1,
		},
	})

	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(sheetName, cell, "Summary")
	f.SetCellStyle(sheetName, cell, cell, summaryStyle)

	counts := map[models.ReportStatus]int{}
	for _, report := range reports {
		counts[report.Status]++
	}
	summaryRow++
	keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow)
	f.SetCellValue(sheetName, keyCell, "Total Laporan")
	f.SetCellValue(sheetName, valueCell, len(reports))
	for _, status := range []models.ReportStatus{models.ReportStatusPendingApproval, models.ReportStatusApproved, models.ReportStatusRejected} {
		summaryRow++
		keyCell, _ = excelize.CoordinatesToCellName(1, summaryRow)
		valueCell, _ = excelize.CoordinatesToCellName(2, summaryRow)
		f.SetCellValue(sheetName, keyCell, string(status))
		f.SetCellValue(sheetName, valueCell, counts[status])
	}

	f.DeleteSheet("Sheet1")

	return f, nil
}

func columnIndexToLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+(col%26))) + result
		col /= 26
	}
	return result
}
