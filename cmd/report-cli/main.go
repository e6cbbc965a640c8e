package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mkarlsen/reportsmith/internal/classify"
	"github.com/mkarlsen/reportsmith/internal/format"
	"github.com/mkarlsen/reportsmith/internal/reportgen"
)

func main() {
	inPath := flag.String("in", "", "Input data file (.csv, .json, or .txt)")
	outPath := flag.String("out", "", "Output file; extension selects markdown (.md) or HTML (.html)")
	userName := flag.String("user", "CLI User", "Name the report is addressed to")
	userRole := flag.String("role", "", "Reader role (executive, manager, analyst)")
	category := flag.String("category", "", "Business category; inferred from filename when empty")
	focus := flag.String("focus", "auto", "Report focus (profit, growth, loss, full, auto)")
	noLLM := flag.Bool("no-llm", false, "Skip AI generation and use template output")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: report-cli -in data.csv [-out report.md]")
		os.Exit(2)
	}

	blob, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatal().Err(err).Msg("read input failed")
	}

	var caller reportgen.LLMCaller
	if !*noLLM {
		c, err := reportgen.NewAnthropicCallerFromEnv()
		if err != nil {
			log.Warn().Err(err).Msg("llm unavailable, using template generation")
		} else {
			caller = c
		}
	}

	businessCategory := *category
	if businessCategory == "" {
		businessCategory = categoryFromFilename(*inPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = log.WithContext(ctx)

	pipeline := reportgen.NewPipeline(caller)
	report := pipeline.Run(ctx, reportgen.Input{
		Content:          string(blob),
		ContentType:      contentTypeFromExt(*inPath),
		UserName:         *userName,
		UserRole:         *userRole,
		BusinessCategory: businessCategory,
		Focus:            classify.Focus(*focus),
	})

	output := report.Markdown
	if strings.EqualFold(filepath.Ext(*outPath), ".html") {
		html, err := format.ToHTML(report.Markdown)
		if err != nil {
			log.Fatal().Err(err).Msg("html conversion failed")
		}
		output = html
	}

	if *outPath == "" {
		fmt.Println(output)
		return
	}
	if err := os.WriteFile(*outPath, []byte(output), 0o644); err != nil {
		log.Fatal().Err(err).Msg("write output failed")
	}
	log.Info().
		Str("tier", string(report.Tier)).
		Str("framework", string(report.Framework)).
		Str("out", *outPath).
		Msg("report written")
}

func contentTypeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return "csv"
	case ".json":
		return "json"
	case ".txt", ".md":
		return "text"
	default:
		return "auto"
	}
}

// categoryFromFilename infers a business category from hints in the file
// name, e.g. "retail_sales_2026.csv".
func categoryFromFilename(path string) string {
	name := strings.ToLower(filepath.Base(path))
	for _, hint := range []string{"retail", "manufacturing", "real estate", "finance", "bank"} {
		if strings.Contains(name, strings.ReplaceAll(hint, " ", "_")) || strings.Contains(name, hint) {
			return hint
		}
	}
	return ""
}
