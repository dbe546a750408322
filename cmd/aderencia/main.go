package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"aderencia/internal/export"
	"aderencia/internal/pdftext"
	"aderencia/internal/repository"
	"aderencia/internal/rules"
	"aderencia/internal/service"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		rulesPath = flag.String("rules", "", "path to the ruleset manifest YAML (required)")
		pdfPath   = flag.String("pdf", "", "Cartão CNPJ PDF to evaluate")
		textPath  = flag.String("text", "", "pre-extracted document text to evaluate")
		out       = flag.String("out", "", "output XLSX report path (optional)")
		asJSON    = flag.Bool("json", false, "print the full result as JSON")
		debug     = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	if *rulesPath == "" {
		printError("Error: --rules is required\n")
		os.Exit(1)
	}
	if (*pdfPath == "") == (*textPath == "") {
		printError("Error: exactly one of --pdf or --text is required\n")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *debug {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	store := rules.NewStore(*rulesPath, logger)
	if err := store.Load(); err != nil {
		printError("Error: loading ruleset: %v\n", err)
		os.Exit(1)
	}

	// One-shot runs keep history in memory only.
	db, err := repository.Open(ctx, ":memory:", logger)
	if err != nil {
		printError("Error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewEvaluationRepository(db, logger)
	extractor := pdftext.NewExtractor(pdftext.Config{
		Pdftotext: os.Getenv("PDFTOTEXT_BIN"),
		Timeout:   60 * time.Second,
	}, logger)
	evaluator := service.NewEvaluator(store, extractor, repo, logger)

	var res *service.Result
	if *pdfPath != "" {
		res, err = evaluator.EvaluatePDF(ctx, *pdfPath, *pdfPath)
	} else {
		raw, readErr := os.ReadFile(*textPath)
		if readErr != nil {
			printError("Error: reading %s: %v\n", *textPath, readErr)
			os.Exit(1)
		}
		res, err = evaluator.EvaluateText(ctx, string(raw), *textPath)
	}
	if err != nil {
		printError("Error: evaluation failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			printError("Error: encoding result: %v\n", err)
			os.Exit(1)
		}
	} else {
		printVerdict(res)
	}

	if *out != "" {
		ev, err := repo.GetByID(ctx, res.ID)
		if err != nil {
			printError("Error: loading evaluation: %v\n", err)
			os.Exit(1)
		}
		blob, err := export.NewService(logger).VerdictXLSX(ev, res.Verdict)
		if err != nil {
			printError("Error: building report: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, blob, 0644); err != nil {
			printError("Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *out)
	}
}

func printVerdict(res *service.Result) {
	fmt.Printf("Empresa:  %s\n", res.Record.CompanyName)
	fmt.Printf("CNPJ:     %s\n", res.Record.CNPJ)
	fmt.Printf("Natureza: %s %s\n", res.Record.LegalNatureCode, res.Record.LegalNature)
	fmt.Println()
	fmt.Printf("Resultado: %s (fase %s)\n", res.Verdict.Outcome, res.Verdict.Phase)
	fmt.Printf("Motivo:    %s\n", res.Verdict.Reason)
	if res.Verdict.Note != "" {
		fmt.Printf("Observação: %s\n", res.Verdict.Note)
	}
	if len(res.Verdict.ActivityReport) > 0 {
		fmt.Println()
		fmt.Println("Atividades:")
		for _, row := range res.Verdict.ActivityReport {
			mark := " "
			if row.Matched {
				mark = "*"
			}
			fmt.Printf("  [%s] %-10s %s - %s\n", mark, row.Type, row.Code, row.Description)
		}
	}
}
