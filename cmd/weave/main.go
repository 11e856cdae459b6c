// Command weave runs and validates workflow definitions from the command line.
//
// Usage:
//
//	weave run --workflow wf.yaml [--input input.json] [--config weave.yaml]
//	weave validate --workflow wf.yaml
//	weave graph --workflow wf.yaml [--format mermaid|dot]
//	weave version
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/codefix-ai/weave"
	"github.com/codefix-ai/weave/archive"
	"github.com/codefix-ai/weave/config"
	"github.com/codefix-ai/weave/engine"
	"github.com/codefix-ai/weave/graph"
	"github.com/codefix-ai/weave/state"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runWorkflow(os.Args[2:])
	case "validate":
		validateWorkflow(os.Args[2:])
	case "graph":
		graphWorkflow(os.Args[2:])
	case "version":
		fmt.Printf("weave %s (built %s)\n", Version, BuildTime)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runWorkflow(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	workflowPath := fs.String("workflow", "", "Path to workflow definition (YAML or JSON)")
	inputPath := fs.String("input", "", "Path to initial input JSON")
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	if *workflowPath == "" {
		fmt.Fprintln(os.Stderr, "run: --workflow is required")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	def, err := graph.LoadDefinitionFile(*workflowPath)
	if err != nil {
		logger.Fatal("failed to load workflow", zap.Error(err))
	}

	input := map[string]any{}
	if *inputPath != "" {
		data, err := os.ReadFile(*inputPath)
		if err != nil {
			logger.Fatal("failed to read input file", zap.Error(err))
		}
		if err := json.Unmarshal(data, &input); err != nil {
			logger.Fatal("failed to parse input file", zap.Error(err))
		}
	}

	engineOpts := []engine.Option{engine.WithDefaults(cfg.Engine)}
	store, err := openArchive(cfg.Archive, logger)
	if err != nil {
		logger.Warn("archive not available, continuing without it", zap.Error(err))
	} else if store != nil {
		defer store.Close()
		engineOpts = append(engineOpts, engine.WithArchive(store))
	}

	eng := weave.New(weave.Options{Logger: logger, Engine: engineOpts})

	exec, err := eng.ExecuteWorkflow(context.Background(), def, input)
	if err != nil {
		logger.Fatal("execution rejected", zap.Error(err))
	}

	out, err := json.MarshalIndent(exec, "", "  ")
	if err != nil {
		logger.Fatal("failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))

	if exec.Status != state.StatusCompleted {
		os.Exit(1)
	}
}

func validateWorkflow(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	workflowPath := fs.String("workflow", "", "Path to workflow definition (YAML or JSON)")
	fs.Parse(args)

	if *workflowPath == "" {
		fmt.Fprintln(os.Stderr, "validate: --workflow is required")
		os.Exit(1)
	}

	def, err := graph.LoadDefinitionFile(*workflowPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load workflow: %v\n", err)
		os.Exit(1)
	}
	if err := graph.Validate(def); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid workflow: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: %s (%d nodes, %d connections, %s)\n",
		def.ID, len(def.Nodes), len(def.Connections), def.Orchestration)
}

func graphWorkflow(args []string) {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	workflowPath := fs.String("workflow", "", "Path to workflow definition (YAML or JSON)")
	format := fs.String("format", "mermaid", "Diagram format: mermaid or dot")
	fs.Parse(args)

	if *workflowPath == "" {
		fmt.Fprintln(os.Stderr, "graph: --workflow is required")
		os.Exit(1)
	}

	def, err := graph.LoadDefinitionFile(*workflowPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load workflow: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "mermaid":
		fmt.Println(def.ToMermaid())
	case "dot":
		fmt.Println(def.ToDOT())
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s (want mermaid or dot)\n", *format)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}

func openArchive(cfg config.ArchiveConfig, logger *zap.Logger) (archive.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return archive.NewMemoryStore(cfg.MaxEntries), nil
	case "redis":
		store, err := archive.NewRedisStore(archive.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       time.Duration(cfg.Redis.TTL),
		})
		if err != nil {
			return nil, err
		}
		logger.Info("archive connected", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", cfg.Backend)
	}
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapConfig.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func printUsage() {
	fmt.Println(`weave - multi-pattern workflow execution engine

Usage:
  weave <command> [options]

Commands:
  run       Execute a workflow definition
  validate  Validate a workflow definition without running it
  graph     Render a workflow definition as a Mermaid or GraphViz diagram
  version   Show version information
  help      Show this help message

Options for 'run':
  --workflow <path>  Workflow definition file (YAML or JSON)
  --input <path>     Initial input as a JSON object
  --config <path>    Engine configuration file (YAML)

Options for 'graph':
  --workflow <path>  Workflow definition file (YAML or JSON)
  --format <name>    Diagram format: mermaid (default) or dot

Examples:
  weave run --workflow pipeline.yaml --input input.json
  weave validate --workflow pipeline.yaml
  weave graph --workflow pipeline.yaml --format dot`)
}
