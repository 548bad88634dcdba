package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"sku-pulse/internal/dashboard"
)

var snapshotHeaders = []string{
	"sessions", "ctr_pct", "conv_pct", "net_gmv", "asp",
	"platform_rev", "date_start", "date_end", "filters",
}

// SnapshotCSV serializes the report's top-line KPIs, active date range
// and filter selections into the one-row download format.
func SnapshotCSV(rep *dashboard.Report) ([]byte, error) {
	selections := struct {
		Categories   []string `json:"categories"`
		Brands       []string `json:"brands"`
		Fulfillments []string `json:"fulfillments"`
		PriceMin     *float64 `json:"price_min,omitempty"`
		PriceMax     *float64 `json:"price_max,omitempty"`
	}{
		Categories:   orEmpty(rep.Filters.Categories),
		Brands:       orEmpty(rep.Filters.Brands),
		Fulfillments: orEmpty(rep.Filters.Fulfillments),
		PriceMin:     rep.Filters.PriceMin,
		PriceMax:     rep.Filters.PriceMax,
	}
	payload, err := json.Marshal(selections)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filters: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	record := []string{
		strconv.Itoa(rep.KPIs.Sessions),
		pctCSV(rep.KPIs.CTR),
		pctCSV(rep.KPIs.ConvRate),
		strconv.FormatFloat(rep.KPIs.NetGMV, 'f', 2, 64),
		floatCSV(rep.KPIs.ASP),
		strconv.FormatFloat(rep.KPIs.PlatformRev, 'f', 2, 64),
		rep.DateStart,
		rep.DateEnd,
		string(payload),
	}
	if err := w.Write(snapshotHeaders); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := w.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportWorkbook renders the full report as a multi-sheet xlsx file.
func ReportWorkbook(rep *dashboard.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Summary"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	summary := [][]interface{}{
		{"Sessions", rep.KPIs.Sessions},
		{"Clicks", rep.KPIs.Clicks},
		{"CTR %", pctCell(rep.KPIs.CTR)},
		{"Add to cart", rep.KPIs.AddToCart},
		{"Units ordered", rep.KPIs.UnitsOrdered},
		{"Conversion %", pctCell(rep.KPIs.ConvRate)},
		{"Net GMV", rep.KPIs.NetGMV},
		{"Platform revenue", rep.KPIs.PlatformRev},
		{"ASP", floatCell(rep.KPIs.ASP)},
		{"Rows", rep.Rows},
		{"Date start", rep.DateStart},
		{"Date end", rep.DateEnd},
	}
	writeSheet(f, sheet, headerStyle, []string{"Metric", "Value"}, summary, []float64{20, 16})

	daily := make([][]interface{}, 0, len(rep.Daily))
	for _, d := range rep.Daily {
		daily = append(daily, []interface{}{
			d.Date, d.Sessions, d.Clicks, pctCell(d.CTR), d.AddToCart,
			d.UnitsOrdered, pctCell(d.ConvRate), d.NetGMV, d.PlatformRev, d.AvgPrice,
		})
	}
	addSheet(f, "Daily", headerStyle,
		[]string{"Date", "Sessions", "Clicks", "CTR %", "Add to cart", "Units ordered", "Conversion %", "Net GMV", "Platform revenue", "Avg price"},
		daily, []float64{12, 10, 10, 8, 12, 13, 12, 12, 16, 10})

	movers := make([][]interface{}, 0, len(rep.TopMovers))
	for _, m := range rep.TopMovers {
		movers = append(movers, []interface{}{
			m.SKUID, m.Title, m.UnitsOrdered, m.NetGMV, m.Sessions, m.Clicks,
		})
	}
	addSheet(f, "Top Movers", headerStyle,
		[]string{"SKU", "Title", "Units ordered", "Net GMV", "Sessions", "Clicks"},
		movers, []float64{10, 20, 13, 12, 10, 10})

	addSheet(f, "Categories", headerStyle, breakdownHeaders("Category"), breakdownCells(rep.Categories), breakdownWidths)
	addSheet(f, "Brands", headerStyle, breakdownHeaders("Brand"), breakdownCells(rep.Brands), breakdownWidths)

	anomalies := make([][]interface{}, 0, len(rep.Anomalies))
	for _, a := range rep.Anomalies {
		flag := ""
		if a.Anomaly {
			flag = "yes"
		}
		anomalies = append(anomalies, []interface{}{a.Date, a.NetGMV, a.Z, flag})
	}
	addSheet(f, "Anomalies", headerStyle,
		[]string{"Date", "Net GMV", "Z-score", "Anomaly"},
		anomalies, []float64{12, 12, 10, 9})

	return f, nil
}

var breakdownWidths = []float64{14, 10, 10, 8, 12, 13, 12, 12, 16}

func breakdownHeaders(key string) []string {
	return []string{key, "Sessions", "Clicks", "CTR %", "Add to cart", "Units ordered", "Conversion %", "Net GMV", "Platform revenue"}
}

func breakdownCells(rows []dashboard.BreakdownRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, b := range rows {
		out = append(out, []interface{}{
			b.Key, b.Sessions, b.Clicks, floatCell(b.CTRPct), b.AddToCart,
			b.UnitsOrdered, floatCell(b.ConvPct), b.NetGMV, b.PlatformRev,
		})
	}
	return out
}

func addSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]interface{}, widths []float64) {
	f.NewSheet(sheet)
	writeSheet(f, sheet, headerStyle, headers, rows, widths)
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]interface{}, widths []float64) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			col, _ := excelize.ColumnNumberToName(colIdx + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, rowIdx+2), val)
		}
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func pctCSV(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p*100, 'f', 2, 64)
}

func floatCSV(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func pctCell(p *float64) interface{} {
	if p == nil {
		return ""
	}
	return round2(*p * 100)
}

func floatCell(p *float64) interface{} {
	if p == nil {
		return ""
	}
	return round2(*p)
}
