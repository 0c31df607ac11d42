// Package config loads plate-reader settings from the environment, an
// optional .env file and an optional YAML tuning file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/plate-reader/internal/pipeline"
)

// Recognition engines.
const (
	EngineTemplate  = "template"
	EngineTesseract = "tesseract"
)

// Config holds the process-level settings.
type Config struct {
	TemplatesDir  string
	Fallback      string
	Workers       int
	HTTPAddr      string
	LogLevel      string
	TuningFile    string
	Engine        string
	TesseractLang string

	// Pipeline is DefaultConfig overlaid with the tuning file, if any.
	Pipeline pipeline.Config
}

// Debug reports whether verbose logging was requested.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Load reads envFile (".env" when empty) if it exists, then builds the
// configuration from the environment. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	workers, err := strconv.Atoi(getEnv("PLATE_READER_WORKERS", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLATE_READER_WORKERS: %w", err)
	}

	cfg := &Config{
		TemplatesDir:  getEnv("PLATE_READER_TEMPLATES", "templates"),
		Fallback:      getEnv("PLATE_READER_FALLBACK", pipeline.DefaultFallback),
		Workers:       workers,
		HTTPAddr:      getEnv("PLATE_READER_HTTP_ADDR", ":8080"),
		LogLevel:      getEnv("PLATE_READER_LOG_LEVEL", "info"),
		TuningFile:    getEnv("PLATE_READER_TUNING", ""),
		Engine:        getEnv("PLATE_READER_ENGINE", EngineTemplate),
		TesseractLang: getEnv("PLATE_READER_TESSERACT_LANG", "eng"),
		Pipeline:      pipeline.DefaultConfig(),
	}

	switch cfg.Engine {
	case EngineTemplate, EngineTesseract:
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}

	if cfg.TuningFile != "" {
		cfg.Pipeline, err = LoadTuning(cfg.TuningFile, cfg.Pipeline)
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadTuning overlays the YAML file at path onto base. Keys missing from the
// file keep their base values; unknown keys are an error.
func LoadTuning(path string, base pipeline.Config) (pipeline.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("failed to open tuning file: %w", err)
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
