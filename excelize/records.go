// Package excelize exports admission records as an XLSX workbook.
package excelize

import (
	"fmt"
	"io"
	"strings"

	"github.com/stankin-rag/priem"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the records.
const SheetName = "Программы"

// Headers are the column titles of the records sheet, in order.
var Headers = []string{
	"Код", "Направление", "Форма обучения", "Уровень", "Предметы",
	"Бюджет", "Платно (РФ)", "Платно (ин.)",
	"Стоимость (РФ)", "Стоимость (ин.)",
	"Отдельная квота", "Особая квота", "Целевая квота",
}

// WriteRecords writes records to w as an XLSX workbook with one row per
// record. Score columns are labeled by year from the first record; unknown
// scores are written as "N/A".
func WriteRecords(w io.Writer, records []*priem.AdmissionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	headers := append([]string(nil), Headers...)
	headers = append(headers, scoreHeaders(records)...)
	headers = append(headers, "Источник")
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return err
	}

	for i, r := range records {
		row := []any{
			r.Code, r.Name, r.StudyForm, string(r.Level), strings.Join(r.Subjects, ", "),
			r.SeatsBudget, r.SeatsPaidDomestic, r.SeatsPaidForeign,
			r.TuitionDomestic, r.TuitionForeign,
			r.QuotaSeparate, r.QuotaSpecial, r.QuotaTarget,
		}
		for j := 0; j < priem.ScoreSlots; j++ {
			if j < len(r.HistoricalScores) && r.HistoricalScores[j].Score.Valid {
				row = append(row, r.HistoricalScores[j].Score.Value)
			} else {
				row = append(row, priem.NotAvailable)
			}
		}
		row = append(row, r.SourceURL)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "B", "B", 48)
	_ = f.SetColWidth(SheetName, "C", "D", 16)
	_ = f.SetColWidth(SheetName, "E", "E", 36)
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func scoreHeaders(records []*priem.AdmissionRecord) []string {
	out := make([]string, priem.ScoreSlots)
	for j := range out {
		out[j] = fmt.Sprintf("Балл %d", j+1)
		if len(records) > 0 && j < len(records[0].HistoricalScores) && records[0].HistoricalScores[j].Year > 0 {
			out[j] = fmt.Sprintf("Балл %d", records[0].HistoricalScores[j].Year)
		}
	}
	return out
}
