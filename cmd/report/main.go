package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"sku-pulse/internal/config"
	"sku-pulse/internal/dashboard"
	"sku-pulse/internal/database"
	"sku-pulse/internal/models"
	"sku-pulse/internal/services"

	"github.com/joho/godotenv"
)

var (
	dbSource    = flag.String("db", "", "sqlite file or mysql dsn (defaults to DATABASE_SOURCE)")
	csvFile     = flag.String("csv", "", "build the report from a csv file instead of the store")
	start       = flag.String("start", "", "start date filter, YYYY-MM-DD")
	end         = flag.String("end", "", "end date filter, YYYY-MM-DD")
	category    = flag.String("category", "", "comma-separated category filter")
	brand       = flag.String("brand", "", "comma-separated brand filter")
	fulfillment = flag.String("fulfillment", "", "comma-separated fulfillment filter")
	priceMin    = flag.String("price-min", "", "minimum price filter")
	priceMax    = flag.String("price-max", "", "maximum price filter")
	outputFile  = flag.String("output", "", "write the full report as json")
	snapshot    = flag.String("snapshot", "", "write the one-row kpi snapshot csv")
	workbook    = flag.String("workbook", "", "write the report as a multi-sheet xlsx")
	webhookURL  = flag.String("webhook", "", "post anomaly alerts to this url (defaults to ALERT_WEBHOOK_URL)")
	verbose     = flag.Bool("verbose", false, "print full tables")
)

func main() {
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	if *dbSource == "" {
		*dbSource = cfg.DatabaseSource
	}
	if *webhookURL == "" {
		*webhookURL = cfg.AlertWebhookURL
	}

	filters, err := buildFilters()
	if err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}

	rows, err := loadRows()
	if err != nil {
		log.Fatalf("Failed to load rows: %v", err)
	}
	if len(rows) == 0 {
		log.Fatal("No rows to analyze")
	}

	rep := dashboard.BuildReport(rows, filters)

	if *verbose {
		printReportVerbose(rep)
	} else {
		printReportSummary(rep)
	}

	if *outputFile != "" {
		if err := saveReportToFile(rep, *outputFile); err != nil {
			log.Printf("Failed to save report: %v", err)
		} else {
			log.Printf("Report saved to: %s", *outputFile)
		}
	}
	if *snapshot != "" {
		data, err := services.SnapshotCSV(rep)
		if err == nil {
			err = os.WriteFile(*snapshot, data, 0644)
		}
		if err != nil {
			log.Printf("Failed to save snapshot: %v", err)
		} else {
			log.Printf("Snapshot saved to: %s", *snapshot)
		}
	}
	if *workbook != "" {
		f, err := services.ReportWorkbook(rep)
		if err == nil {
			err = f.SaveAs(*workbook)
		}
		if err != nil {
			log.Printf("Failed to save workbook: %v", err)
		} else {
			log.Printf("Workbook saved to: %s", *workbook)
		}
	}
	if *webhookURL != "" {
		notifier := services.NewAlertNotifier(*webhookURL)
		if err := notifier.NotifyAnomalies(rep); err != nil {
			log.Printf("Anomaly alert failed: %v", err)
		}
	}
}

// loadRows reads the input set, either an ad-hoc csv or the store.
func loadRows() ([]models.MetricRow, error) {
	if *csvFile != "" {
		f, err := os.Open(*csvFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return services.ParseMetricsCSV(f)
	}

	db, err := database.Initialize(*dbSource)
	if err != nil {
		return nil, err
	}
	return services.NewMetricStore(db).LoadAll()
}

func buildFilters() (dashboard.Filters, error) {
	var f dashboard.Filters
	if *start != "" {
		t, err := time.Parse("2006-01-02", *start)
		if err != nil {
			return f, fmt.Errorf("bad -start %q", *start)
		}
		f.DateStart = &t
	}
	if *end != "" {
		t, err := time.Parse("2006-01-02", *end)
		if err != nil {
			return f, fmt.Errorf("bad -end %q", *end)
		}
		f.DateEnd = &t
	}
	f.Categories = splitList(*category)
	f.Brands = splitList(*brand)
	f.Fulfillments = splitList(*fulfillment)
	if *priceMin != "" {
		v, err := strconv.ParseFloat(*priceMin, 64)
		if err != nil {
			return f, fmt.Errorf("bad -price-min %q", *priceMin)
		}
		f.PriceMin = &v
	}
	if *priceMax != "" {
		v, err := strconv.ParseFloat(*priceMax, 64)
		if err != nil {
			return f, fmt.Errorf("bad -price-max %q", *priceMax)
		}
		f.PriceMax = &v
	}
	return f, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// printReportSummary prints the headline sections of the report.
func printReportSummary(rep *dashboard.Report) {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SKU Pulse Report")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Generated: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Rows analyzed: %d\n", rep.Rows)
	fmt.Printf("Date range: %s .. %s\n", orDash(rep.DateStart), orDash(rep.DateEnd))
	fmt.Println()

	k := rep.KPIs
	fmt.Println("[Top-line KPIs]")
	fmt.Printf("  Sessions: %d  Clicks: %d  CTR: %s\n", k.Sessions, k.Clicks, fmtRate(k.CTR))
	fmt.Printf("  Add to cart: %d  Units ordered: %d  Conversion: %s\n", k.AddToCart, k.UnitsOrdered, fmtRate(k.ConvRate))
	fmt.Printf("  Net GMV: %.2f  Platform revenue: %.2f  ASP: %s\n", k.NetGMV, k.PlatformRev, fmtValue(k.ASP))
	fmt.Println()

	fmt.Println("[Top movers]")
	limit := len(rep.TopMovers)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		m := rep.TopMovers[i]
		fmt.Printf("  %d. %s  %s  units=%d  net_gmv=%.2f\n", i+1, m.SKUID, m.Title, m.UnitsOrdered, m.NetGMV)
	}
	fmt.Println()

	fmt.Println("[Categories]")
	for _, b := range rep.Categories {
		fmt.Printf("  %-12s net_gmv=%-12.2f units=%-6d ctr=%-8s conv=%s\n",
			b.Key, b.NetGMV, b.UnitsOrdered, fmtPoints(b.CTRPct), fmtPoints(b.ConvPct))
	}
	fmt.Println()

	fmt.Println("[Brands]")
	for _, b := range rep.Brands {
		fmt.Printf("  %-12s net_gmv=%-12.2f units=%-6d ctr=%-8s conv=%s\n",
			b.Key, b.NetGMV, b.UnitsOrdered, fmtPoints(b.CTRPct), fmtPoints(b.ConvPct))
	}
	fmt.Println()

	flagged := rep.AnomalyDays()
	fmt.Printf("[Anomalies] %d flagged day(s)\n", len(flagged))
	for _, a := range flagged {
		fmt.Printf("  %s  net_gmv=%.2f  z=%.2f\n", a.Date, a.NetGMV, a.Z)
	}
	fmt.Println(strings.Repeat("=", 80))
}

// printReportVerbose adds the full daily and movers tables.
func printReportVerbose(rep *dashboard.Report) {
	printReportSummary(rep)

	if len(rep.Daily) > 0 {
		fmt.Println("\n[Daily trend]")
		for _, d := range rep.Daily {
			fmt.Printf("  %s  sessions=%-6d units=%-5d net_gmv=%-12.2f ctr=%-8s conv=%s\n",
				d.Date, d.Sessions, d.UnitsOrdered, d.NetGMV, fmtRate(d.CTR), fmtRate(d.ConvRate))
		}
	}

	if len(rep.TopMovers) > 5 {
		fmt.Println("\n[Full movers table]")
		for i, m := range rep.TopMovers {
			fmt.Printf("  %d. %s  %s  units=%d  net_gmv=%.2f  sessions=%d\n",
				i+1, m.SKUID, m.Title, m.UnitsOrdered, m.NetGMV, m.Sessions)
		}
	}
}

func saveReportToFile(rep *dashboard.Report, filename string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

// fmtRate renders a unit ratio as a percentage, "-" when undefined.
func fmtRate(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *p*100)
}

// fmtPoints renders a value already scaled to percentage points.
func fmtPoints(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *p)
}

func fmtValue(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
