package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/utils"
)

// settlementExportHeaders is the flat tabular form of a settlement
// record. Both export formats emit exactly these columns so the export
// is lossless with respect to the audit trail.
var settlementExportHeaders = []string{"Amount", "Currency", "Owed By", "Owed To", "Reason", "Timestamp"}

// ExportService renders a user's settlement history as a downloadable
// file
type ExportService struct {
	queryService *QueryService
}

// NewExportService creates a new export service
func NewExportService(queryService *QueryService) *ExportService {
	return &ExportService{queryService: queryService}
}

// ExportSettlementHistoryXLSX generates an Excel workbook with one
// settlement record per row
func (s *ExportService) ExportSettlementHistoryXLSX(username string) (*excelize.File, string, error) {
	records, err := s.queryService.GetSettlementHistory(username)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Settlement History"
	f.NewSheet(sheetName)

	for col, header := range settlementExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, record := range records {
		row := i + 2
		values := []interface{}{
			record.Amount,
			record.Currency,
			record.OwedBy,
			record.OwedTo,
			record.Reason,
			record.SettledTime().UTC().Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_settlements_%s.xlsx",
		utils.CleanFileName(username),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

// WriteSettlementHistoryCSV writes a user's settlement records to w in
// CSV form
func (s *ExportService) WriteSettlementHistoryCSV(w io.Writer, username string) error {
	records, err := s.queryService.GetSettlementHistory(username)
	if err != nil {
		return err
	}
	return writeSettlementCSV(w, records)
}

func writeSettlementCSV(w io.Writer, records []models.SettlementRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(settlementExportHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.FormatFloat(record.Amount, 'f', 2, 64),
			record.Currency,
			record.OwedBy,
			record.OwedTo,
			record.Reason,
			record.SettledTime().UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
