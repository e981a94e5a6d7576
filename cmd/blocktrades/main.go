// Command blocktrades merges the block-trade table of an ATHEX daily report
// PDF into the Block Trades master workbook.
//
// Paths come from -pdf/-xlsx, or interactively from stdin when a flag is
// omitted. The tool updates (or appends) the Master row for the report date,
// writes a colored DD.MM.YYYY audit sheet, and saves the workbook under
// "Block Trades_updated as of DD.MM.YYYY.xlsx" next to the input ledger.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"athexcli/internal/config"
	"athexcli/internal/dataprocessing"
	"athexcli/internal/infrastructure"
	"athexcli/internal/ledger"
	"athexcli/internal/pdfdoc"
	"athexcli/pkg/contracts/domain"
)

func main() {
	pdfPath := flag.String("pdf", "", "ATHEX daily report PDF (prompted for when omitted)")
	xlsxPath := flag.String("xlsx", "", "Block Trades master workbook (prompted for when omitted)")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// Stamp every log line of this run, including package-level slog calls.
	logger = logger.With(slog.String("trace_id", uuid.NewString()))
	slog.SetDefault(logger)

	stdin := bufio.NewReader(os.Stdin)
	if *pdfPath == "" {
		*pdfPath = prompt(stdin, "Select ATHEX Daily PDF: ")
	}
	if *pdfPath == "" {
		fmt.Println("No PDF selected.")
		return
	}
	if *xlsxPath == "" {
		*xlsxPath = prompt(stdin, "Select Block Trades Master Excel: ")
	}
	if *xlsxPath == "" {
		fmt.Println("No Excel selected.")
		return
	}

	logger.Info("Starting block-trade merge",
		slog.String("pdf", *pdfPath),
		slog.String("xlsx", *xlsxPath))

	if err := run(cfg, logger, *pdfPath, *xlsxPath); err != nil {
		logger.Error("Run failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, pdfPath, xlsxPath string) error {
	// The PDF is fully consumed before the workbook is opened for writing.
	report, err := extract(pdfPath)
	if err != nil {
		return err
	}
	if len(report.Records) == 0 {
		fmt.Println("No block trades found in PDF.")
		return nil
	}

	dateLabel := report.Date.Format("02.01.2006")
	logger.Info("Parsed report",
		slog.String("report_date", dateLabel),
		slog.Int("trades", len(report.Records)))

	book, err := ledger.Open(xlsxPath, cfg.Ledger)
	if err != nil {
		return err
	}
	defer book.Close()

	blocks, err := book.HeaderBlocks()
	if err != nil {
		return err
	}
	row, err := book.LocateOrCreateRow(report.Date)
	if err != nil {
		return err
	}

	groups := dataprocessing.GroupTrades(report.Records)
	if err := book.FillRow(row, blocks, groups, report.Date); err != nil {
		return err
	}
	if err := book.WriteAuditSheet(dateLabel, report.Records, blocks); err != nil {
		return err
	}

	outPath := filepath.Join(
		filepath.Dir(xlsxPath),
		fmt.Sprintf(cfg.Output.FilenamePattern, dateLabel))
	if err := book.SaveAs(outPath); err != nil {
		return err
	}

	logger.Info("Merge complete",
		slog.Int("row", row),
		slog.Int("companies", len(groups)),
		slog.String("output", outPath))
	fmt.Printf("Saved: %s\n", outPath)
	return nil
}

// extract opens the PDF, pulls the block-trade records and releases the
// document before the caller touches the workbook.
func extract(pdfPath string) (*domain.BlockTradeReport, error) {
	doc, err := pdfdoc.Open(pdfPath)
	if err != nil {
		return nil, err
	}
	report, err := dataprocessing.ExtractBlockTrades(doc)
	if err != nil {
		if errors.Is(err, dataprocessing.ErrNoReportDate) {
			return nil, fmt.Errorf("cannot date the ledger row: %w", err)
		}
		return nil, err
	}
	return report, nil
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
