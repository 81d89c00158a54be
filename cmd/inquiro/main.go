// Command inquiro runs the reasoning agent and manages its document index.
//
// Subcommands:
//
//	ingest <file-or-dir>   ingest documents into the vector store
//	delete <source>        remove an ingested document by name
//	check <source>         report whether a document is ingested
//	query <question>       answer a question with the reasoning loop
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/inquiro-ai/inquiro"
	"github.com/inquiro-ai/inquiro/src/memory"
	"github.com/inquiro-ai/inquiro/src/models"
	"github.com/inquiro-ai/inquiro/src/prompts"
	"github.com/inquiro-ai/inquiro/src/rag"
	"github.com/inquiro-ai/inquiro/src/tools"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "ingest":
		err = runIngest(ctx, os.Args[2:], logger)
	case "delete":
		err = runDelete(ctx, os.Args[2:], logger)
	case "check":
		err = runCheck(ctx, os.Args[2:], logger)
	case "query":
		err = runQuery(ctx, os.Args[2:], logger)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: inquiro <command> [flags]

commands:
  ingest <file-or-dir>   ingest documents into the vector store
  delete <source>        remove an ingested document by name
  check <source>         report whether a document is ingested
  query <question>       answer a question with the reasoning loop

query flags (before or after the question):
  --verify               gate answers through the verifier model
  --memory               persist the reasoning session
  --mode <m>             prompt mode: base, advanced or plan
  --plan-file <path>     plan context file for plan mode
  --max-iterations <n>   reasoning loop ceiling`)
}

func runIngest(ctx context.Context, args []string, logger *slog.Logger) error {
	if len(args) < 1 {
		return fmt.Errorf("ingest requires a file or directory path")
	}
	path := args[0]

	idx, err := buildIndex(ctx, logger)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var chunks int
	if info.IsDir() {
		chunks, err = idx.IngestDir(ctx, path)
	} else {
		chunks, err = idx.IngestFile(ctx, path)
	}
	if err != nil {
		return err
	}

	fmt.Printf("ingested %d chunks from %s\n", chunks, path)
	return nil
}

func runDelete(ctx context.Context, args []string, logger *slog.Logger) error {
	if len(args) < 1 {
		return fmt.Errorf("delete requires a document name")
	}
	idx, err := buildIndex(ctx, logger)
	if err != nil {
		return err
	}
	removed, err := idx.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("removed %d chunks of %s\n", removed, args[0])
	return nil
}

func runCheck(ctx context.Context, args []string, logger *slog.Logger) error {
	if len(args) < 1 {
		return fmt.Errorf("check requires a document name")
	}
	idx, err := buildIndex(ctx, logger)
	if err != nil {
		return err
	}
	present, err := idx.Has(ctx, args[0])
	if err != nil {
		return err
	}
	if present {
		fmt.Printf("%s is ingested\n", args[0])
	} else {
		fmt.Printf("%s is not ingested\n", args[0])
	}
	return nil
}

type queryOptions struct {
	verify        bool
	useMemory     bool
	mode          string
	maxIterations int
	planFile      string
}

// parseQueryArgs accepts flags on either side of the question: the flag
// package stops at the first positional, so the remainder is parsed again
// once the question is extracted.
func parseQueryArgs(args []string) (string, queryOptions, error) {
	var opts queryOptions
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.BoolVar(&opts.verify, "verify", false, "gate answers through the verifier model")
	fs.BoolVar(&opts.useMemory, "memory", false, "persist the reasoning session")
	fs.StringVar(&opts.mode, "mode", "base", "prompt mode: base, advanced or plan")
	fs.IntVar(&opts.maxIterations, "max-iterations", 0, "reasoning loop ceiling")
	fs.StringVar(&opts.planFile, "plan-file", "", "plan context file for plan mode")

	if err := fs.Parse(args); err != nil {
		return "", opts, err
	}
	if fs.NArg() < 1 {
		return "", opts, fmt.Errorf("query requires a question")
	}
	question := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", opts, err
	}
	return question, opts, nil
}

func runQuery(ctx context.Context, args []string, logger *slog.Logger) error {
	question, qopts, err := parseQueryArgs(args)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if qopts.maxIterations > 0 {
		cfg.MaxIterations = qopts.maxIterations
	}

	promptMode, err := prompts.ParseMode(qopts.mode)
	if err != nil {
		return err
	}

	composer := prompts.NewComposer(promptMode)
	if dir := os.Getenv("INQUIRO_PROMPTS_DIR"); dir != "" {
		if err := composer.LoadOverrides(dir); err != nil {
			return err
		}
	}
	if qopts.planFile != "" {
		if err := composer.LoadPlanContext(qopts.planFile); err != nil {
			return err
		}
	}

	model, err := models.NewProvider(ctx, os.Getenv("INQUIRO_PROVIDER"), cfg.Model, cfg.Temperature)
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	idx, err := buildIndex(ctx, logger)
	if err != nil {
		return err
	}

	agentTools := []inquiro.Tool{
		tools.NewVectorSearchTool(idx, 3),
		&tools.CalculatorTool{},
		&tools.TimeTool{},
	}
	if searcher, ok := model.(tools.WebSearcher); ok {
		agentTools = append(agentTools, tools.NewWebSearchTool(searcher, 3))
	}

	opts := inquiro.Options{
		Model:    model,
		Tools:    agentTools,
		Composer: composer,
		Config:   cfg,
		Logger:   logger,
	}
	if qopts.verify {
		verifierModel, err := models.NewProvider(ctx, os.Getenv("INQUIRO_PROVIDER"), cfg.VerifierModel, cfg.Temperature)
		if err != nil {
			return fmt.Errorf("build verifier model: %w", err)
		}
		opts.Verifier = inquiro.NewVerifier(verifierModel, cfg.Timeout, logger)
	}
	if qopts.useMemory {
		store, err := buildSessionStore(ctx)
		if err != nil {
			return err
		}
		opts.Memory = memory.NewSessionLog(store)
	}

	agent, err := inquiro.New(opts)
	if err != nil {
		return err
	}

	result, err := agent.Run(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	fmt.Printf("(%d iterations)\n", result.Iterations)
	if result.Verification != nil {
		fmt.Printf("(verdict: %s, confidence %.2f)\n", result.Verification.Verdict, result.Verification.Confidence)
	}
	if !result.Success {
		logger.Warn("answer is incomplete", "iterations", result.Iterations)
	}
	return nil
}

// buildIndex wires the embedder and vector store selected by the environment.
// INQUIRO_VECTOR_STORE=memory|postgres|mongo, defaulting to memory.
func buildIndex(ctx context.Context, logger *slog.Logger) (*rag.Index, error) {
	cfg := loadConfig()

	var store rag.VectorStore
	switch os.Getenv("INQUIRO_VECTOR_STORE") {
	case "", "memory":
		store = rag.NewInMemoryStore()
	case "postgres":
		connStr := os.Getenv("DATABASE_URL")
		if connStr == "" {
			return nil, fmt.Errorf("postgres store requires DATABASE_URL")
		}
		pg, err := rag.NewPostgresStore(ctx, connStr)
		if err != nil {
			return nil, err
		}
		store = pg
	case "mongo":
		uri := os.Getenv("MONGODB_URI")
		if uri == "" {
			return nil, fmt.Errorf("mongo store requires MONGODB_URI")
		}
		db := envOr("MONGODB_DATABASE", "inquiro")
		coll := envOr("MONGODB_COLLECTION", "documents")
		ms, err := rag.NewMongoVectorStore(ctx, uri, db, coll)
		if err != nil {
			return nil, err
		}
		store = ms
	default:
		return nil, fmt.Errorf("unknown vector store: %s", os.Getenv("INQUIRO_VECTOR_STORE"))
	}

	var embedder rag.Embedder
	if os.Getenv("INQUIRO_EMBED_PROVIDER") != "" {
		embedder = rag.AutoEmbedder()
	} else if e, err := rag.NewOllamaEmbedder(cfg.EmbedModel); err == nil {
		embedder = e
	} else {
		embedder = rag.DummyEmbedder{}
	}

	return rag.NewIndex(store, embedder, cfg.ChunkSize, cfg.ChunkOverlap, logger), nil
}

// buildSessionStore selects where sessions are persisted.
// INQUIRO_MEMORY_STORE=file|mongo, defaulting to file.
func buildSessionStore(ctx context.Context) (memory.Store, error) {
	switch os.Getenv("INQUIRO_MEMORY_STORE") {
	case "", "file":
		return memory.NewFileStore(envOr("INQUIRO_MEMORY_DIR", "memory")), nil
	case "mongo":
		uri := os.Getenv("MONGODB_URI")
		if uri == "" {
			return nil, fmt.Errorf("mongo memory store requires MONGODB_URI")
		}
		db := envOr("MONGODB_DATABASE", "inquiro")
		return memory.NewMongoStore(ctx, uri, db, "sessions")
	default:
		return nil, fmt.Errorf("unknown memory store: %s", os.Getenv("INQUIRO_MEMORY_STORE"))
	}
}

func loadConfig() inquiro.Config {
	cfg := inquiro.DefaultConfig()
	if v := os.Getenv("INQUIRO_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("INQUIRO_VERIFIER_MODEL"); v != "" {
		cfg.VerifierModel = v
	} else {
		cfg.VerifierModel = cfg.Model
	}
	if v := os.Getenv("INQUIRO_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("INQUIRO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("INQUIRO_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxIterations = n
		}
	}
	if v := os.Getenv("INQUIRO_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkSize = n
		}
	}
	return cfg
}

func logLevel() slog.Level {
	switch os.Getenv("INQUIRO_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
