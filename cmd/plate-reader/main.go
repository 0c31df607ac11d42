package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/plate-reader/internal/api"
	"github.com/ironsheep/plate-reader/internal/config"
	"github.com/ironsheep/plate-reader/internal/ocr"
	"github.com/ironsheep/plate-reader/internal/pipeline"
	"github.com/ironsheep/plate-reader/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("plate-reader - license plate recognition")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  plate-reader [options] <images_dir> <results_file>   Read a directory of photos")
	fmt.Println("  plate-reader [options] serve                          MCP server on stdin/stdout")
	fmt.Println("  plate-reader [options] http                           HTTP API")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -engine string      template or tesseract (default from PLATE_READER_ENGINE)")
	fmt.Println("  -templates string   template root with 54/ and 43/ subdirectories")
	fmt.Println("  -tuning string      YAML file overriding pipeline parameters")
	fmt.Println("  -workers int        photos read in parallel (0 = number of CPUs)")
	fmt.Println("  -fallback string    text for photos without a readable plate")
	fmt.Println("  --version, -v       Print version information")
	fmt.Println("  --help, -h          Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  PLATE_READER_TEMPLATES, PLATE_READER_ENGINE, PLATE_READER_TUNING,")
	fmt.Println("  PLATE_READER_WORKERS, PLATE_READER_FALLBACK, PLATE_READER_HTTP_ADDR,")
	fmt.Println("  PLATE_READER_TESSERACT_LANG")
	fmt.Println("  PLATE_READER_LOG_LEVEL=debug    Enable debug logging")
}

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("plate-reader %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	// Logs go to stderr; stdout carries the MCP protocol in serve mode
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("plate-reader", flag.ContinueOnError)
	fs.Usage = usage
	engine := fs.String("engine", cfg.Engine, "recognition engine")
	templates := fs.String("templates", cfg.TemplatesDir, "template root")
	tuning := fs.String("tuning", cfg.TuningFile, "tuning file")
	workers := fs.Int("workers", cfg.Workers, "parallel workers")
	fallback := fs.String("fallback", cfg.Fallback, "fallback text")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *tuning != "" && *tuning != cfg.TuningFile {
		if cfg.Pipeline, err = config.LoadTuning(*tuning, pipeline.DefaultConfig()); err != nil {
			return err
		}
	}

	if cfg.Debug() {
		log.Printf("plate-reader v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	plates, err := newPlateReader(cfg, *engine, *templates)
	if err != nil {
		return err
	}
	logger := log.New(log.Writer(), "pipeline: ", log.Flags())
	reader := pipeline.NewReader(cfg.Pipeline, plates, pipeline.WithLogger(logger), pipeline.WithDebug(cfg.Debug()))
	batch := pipeline.BatchOptions{Workers: *workers, Fallback: *fallback}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rest := fs.Args()
	switch {
	case len(rest) == 1 && rest[0] == "serve":
		return server.New(reader, batch, Version).Run()

	case len(rest) == 1 && rest[0] == "http":
		if !cfg.Debug() {
			gin.SetMode(gin.ReleaseMode)
		}
		router := api.NewRouter(reader, log.New(log.Writer(), "api: ", log.Flags()))
		return api.Serve(ctx, cfg.HTTPAddr, router, log.Default())

	case len(rest) == 2:
		return runBatch(ctx, reader, rest[0], rest[1], batch)

	default:
		usage()
		return errors.New("expected <images_dir> <results_file>, serve or http")
	}
}

func newPlateReader(cfg *config.Config, engine, templates string) (ocr.PlateReader, error) {
	switch engine {
	case config.EngineTemplate:
		set, err := ocr.LoadTemplates(templates, cfg.Pipeline.Templates)
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
		if cfg.Debug() {
			log.Printf("Loaded %d templates from %s", set.Len(), templates)
		}
		return pipeline.NewTemplateReader(set, cfg.Pipeline), nil
	case config.EngineTesseract:
		return ocr.NewTesseractReader(cfg.TesseractLang, cfg.Pipeline.Match.Separator)
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}

func runBatch(ctx context.Context, reader *pipeline.Reader, dir, resultsFile string, opts pipeline.BatchOptions) error {
	results, err := reader.ReadDir(ctx, dir, opts)
	if err != nil {
		return err
	}
	if err := pipeline.WriteResults(resultsFile, results); err != nil {
		return err
	}
	log.Printf("Read %d images from %s, results written to %s", len(results), dir, resultsFile)
	return nil
}
