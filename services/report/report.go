package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"usdscan/depositworker/internal/crawler"
)

var (
	depositHeaders = []string{"Bank", "Site", "Deposit", "AnnualRate", "Currency", "SourceURL"}
	siteHeaders    = []string{"InputURL", "Domain", "HTTPStatus", "Signals", "Result", "Note", "RowsFound"}
)

// WriteExcel writes the two-sheet workbook: "USD Deposits" and "Site Status".
func WriteExcel(records []crawler.DepositRecord, outcomes []crawler.SiteOutcome, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const depositsSheet = "USD Deposits"
	const sitesSheet = "Site Status"

	f.SetSheetName("Sheet1", depositsSheet)
	if _, err := f.NewSheet(sitesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeDepositsSheet(f, depositsSheet, records, headerStyle); err != nil {
		return err
	}
	if err := writeSitesSheet(f, sitesSheet, outcomes, headerStyle); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeDepositsSheet(f *excelize.File, sheet string, records []crawler.DepositRecord, headerStyle int) error {
	if len(records) == 0 {
		return f.SetCellValue(sheet, "A1", "No USD deposits found")
	}

	if err := f.SetSheetRow(sheet, "A1", &depositHeaders); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{r.Bank, r.Site, r.Name, r.Rate, r.Currency, r.SourceURL}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(depositHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	rateFmt := "0.0%"
	rateStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &rateFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	top, _ := excelize.CoordinatesToCellName(4, 2)
	bottom, _ := excelize.CoordinatesToCellName(4, len(records)+1)
	if err := f.SetCellStyle(sheet, top, bottom, rateStyle); err != nil {
		return err
	}

	if err := freezeHeader(f, sheet); err != nil {
		return err
	}

	ref, _ := excelize.CoordinatesToCellName(len(depositHeaders), len(records)+1)
	return addTable(f, sheet, "DepositsUSD", "A1:"+ref)
}

func writeSitesSheet(f *excelize.File, sheet string, outcomes []crawler.SiteOutcome, headerStyle int) error {
	if len(outcomes) == 0 {
		return f.SetCellValue(sheet, "A1", "No sites processed")
	}

	if err := f.SetSheetRow(sheet, "A1", &siteHeaders); err != nil {
		return err
	}
	for i, o := range outcomes {
		status := interface{}(o.HTTPStatus)
		if o.HTTPStatus == 0 {
			status = ""
		}
		row := []interface{}{o.InputURL, o.Domain, status, o.Signals, string(o.Result), o.Note, o.RowsFound}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(siteHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	if err := freezeHeader(f, sheet); err != nil {
		return err
	}

	ref, _ := excelize.CoordinatesToCellName(len(siteHeaders), len(outcomes)+1)
	return addTable(f, sheet, "SiteStatus", "A1:"+ref)
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func addTable(f *excelize.File, sheet, name, ref string) error {
	stripes := true
	return f.AddTable(sheet, &excelize.Table{
		Range:          ref,
		Name:           name,
		StyleName:      "TableStyleMedium9",
		ShowRowStripes: &stripes,
	})
}

// WriteDepositsCSV writes the flat deposit list; rates are rendered as
// percent text ("7.2%").
func WriteDepositsCSV(records []crawler.DepositRecord, path string) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, depositHeaders)
	for _, r := range records {
		rows = append(rows, []string{
			r.Bank,
			r.Site,
			r.Name,
			// Six significant digits absorb the float error of the *100 round trip.
			strconv.FormatFloat(r.Rate*100, 'g', 6, 64) + "%",
			r.Currency,
			r.SourceURL,
		})
	}
	return writeCSV(rows, path)
}

// WriteSitesCSV writes one row per input URL.
func WriteSitesCSV(outcomes []crawler.SiteOutcome, path string) error {
	rows := make([][]string, 0, len(outcomes)+1)
	rows = append(rows, siteHeaders)
	for _, o := range outcomes {
		status := ""
		if o.HTTPStatus != 0 {
			status = strconv.Itoa(o.HTTPStatus)
		}
		rows = append(rows, []string{
			o.InputURL,
			o.Domain,
			status,
			o.Signals,
			string(o.Result),
			o.Note,
			strconv.Itoa(o.RowsFound),
		})
	}
	return writeCSV(rows, path)
}

func writeCSV(rows [][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
