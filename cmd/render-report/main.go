package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkarlsen/reportsmith/internal/render"
)

func main() {
	inPath := flag.String("in", "", "Report markdown file")
	outPath := flag.String("out", "report.pdf", "Output PDF path")
	flag.Parse()

	if *inPath == "" {
		log.Fatal("usage: render-report -in report.md [-out report.pdf]")
	}

	blob, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	renderer := render.NewChromiumPDFRenderer()
	pdf, err := renderer.Render(ctx, string(blob))
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*outPath, pdf, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d bytes)", *outPath, len(pdf))
}
