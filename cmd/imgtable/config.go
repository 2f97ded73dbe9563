package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/ukaji3/imgtable-go/pkg/imgtable"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/ocr"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/refine"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/table"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// envPrefix namespaces environment overrides, e.g. IMGTABLE_REFINE_MODEL.
const envPrefix = "IMGTABLE"

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"output":         "output",
	"threshold":      "table.threshold",
	"lang":           "ocr.lang",
	"level":          "ocr.level",
	"min-confidence": "ocr.min_confidence",
	"fragments":      "ocr.fragments",
	"no-refine":      "refine.disabled",
	"model":          "refine.model",
	"base-url":       "refine.base_url",
	"refine-timeout": "refine.timeout",
	"json":           "json.path",
	"pretty":         "json.pretty",
	"log-level":      "log.level",
}

// config is the resolved command configuration.
type config struct {
	Output        string
	Threshold     float64
	Languages     []string
	Level         ocr.Level
	MinConfidence float64
	Fragments     string
	NoRefine      bool
	Model         string
	BaseURL       string
	APIKey        string
	RefineTimeout time.Duration
	JSONPath      string
	Pretty        bool
	LogLevel      string
}

func addFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", imgtable.DefaultOutputPath, "Output workbook path")
	flags.Float64("threshold", table.DefaultRowThreshold, "Max vertical gap (px) between consecutive fragments of one row")
	flags.StringSlice("lang", []string{"eng"}, "Tesseract languages")
	flags.String("level", string(ocr.LevelLine), "OCR box granularity: line, word")
	flags.Float64("min-confidence", 0, "Drop OCR boxes scored below this (0-100)")
	flags.String("fragments", "", "Read detections from a JSON file instead of running OCR")
	flags.Bool("no-refine", false, "Skip AI refinement")
	flags.String("model", refine.DefaultModel, "Refinement model")
	flags.String("base-url", refine.DefaultBaseURL, "OpenAI-compatible endpoint")
	flags.Duration("refine-timeout", 2*time.Minute, "Deadline for the refinement call (0 disables)")
	flags.String("json", "", "Also write the final grid as JSON to this path")
	flags.Bool("pretty", false, "Pretty-print JSON output")
	flags.String("config", "", "Config file (yaml, json or toml)")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
}

// loadConfig wires .env, environment, config file and flags into v.
// Precedence is flag, environment, config file, default.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("refine.api_key", envPrefix+"_REFINE_API_KEY", "OPENAI_API_KEY"); err != nil {
		return err
	}

	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}

	path, err := flags.GetString("config")
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func readConfig(v *viper.Viper) (config, error) {
	cfg := config{
		Output:        v.GetString("output"),
		Threshold:     v.GetFloat64("table.threshold"),
		Languages:     v.GetStringSlice("ocr.lang"),
		Level:         ocr.Level(strings.ToLower(v.GetString("ocr.level"))),
		MinConfidence: v.GetFloat64("ocr.min_confidence"),
		Fragments:     v.GetString("ocr.fragments"),
		NoRefine:      v.GetBool("refine.disabled"),
		Model:         v.GetString("refine.model"),
		BaseURL:       v.GetString("refine.base_url"),
		APIKey:        v.GetString("refine.api_key"),
		RefineTimeout: v.GetDuration("refine.timeout"),
		JSONPath:      v.GetString("json.path"),
		Pretty:        v.GetBool("json.pretty"),
		LogLevel:      v.GetString("log.level"),
	}

	switch cfg.Level {
	case ocr.LevelLine, ocr.LevelWord:
	default:
		return config{}, fmt.Errorf("invalid level: %s (must be line or word)", cfg.Level)
	}
	if err := (table.Params{RowThreshold: cfg.Threshold}).Validate(); err != nil {
		return config{}, err
	}
	if cfg.RefineTimeout < 0 {
		return config{}, fmt.Errorf("invalid refine timeout: %s", cfg.RefineTimeout)
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// buildOptions turns the resolved configuration into pipeline options.
func buildOptions(cfg config, logger *zap.Logger) imgtable.Options {
	opts := imgtable.Options{
		Params:        table.Params{RowThreshold: cfg.Threshold},
		RefineTimeout: cfg.RefineTimeout,
		OutputPath:    cfg.Output,
		JSONPath:      cfg.JSONPath,
		Pretty:        cfg.Pretty,
		Logger:        logger,
	}

	if cfg.Fragments != "" {
		opts.Extractor = ocr.JSONFile{Path: cfg.Fragments}
		opts.SkipImageCheck = true
	} else {
		opts.Extractor = ocr.NewTesseract(ocr.Options{
			Languages:     cfg.Languages,
			Level:         cfg.Level,
			PageSegMode:   ocr.PSMSparseText,
			MinConfidence: cfg.MinConfidence,
		}, logger)
	}

	opts.Refiner = buildRefiner(cfg, logger)
	return opts
}

// buildRefiner returns the LLM refiner, or a stand-in when it is disabled or
// cannot be constructed. A missing credential is reported at refinement time
// so the table is still saved.
func buildRefiner(cfg config, logger *zap.Logger) refine.Refiner {
	if cfg.NoRefine {
		return refine.Identity{}
	}
	rcfg := refine.DefaultConfig()
	rcfg.APIKey = cfg.APIKey
	if cfg.Model != "" {
		rcfg.Model = cfg.Model
	}
	if cfg.BaseURL != "" {
		rcfg.BaseURL = cfg.BaseURL
	}
	llm, err := refine.NewLLM(rcfg, logger)
	if err != nil {
		logger.Debug("Refiner unavailable", zap.Error(err))
		return refine.Unavailable{Err: err}
	}
	return llm
}
