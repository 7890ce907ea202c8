package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MrWong99/semanticchunker/internal/builder"
	"github.com/MrWong99/semanticchunker/internal/config"
	"github.com/MrWong99/semanticchunker/internal/detector"
	"github.com/MrWong99/semanticchunker/internal/embedder"
	"github.com/MrWong99/semanticchunker/internal/llmrouter"
	"github.com/MrWong99/semanticchunker/internal/llmrouter/local"
	"github.com/MrWong99/semanticchunker/internal/llmrouter/remote"
	"github.com/MrWong99/semanticchunker/internal/pipeline"
	"github.com/MrWong99/semanticchunker/internal/pipelineerr"
	"github.com/MrWong99/semanticchunker/internal/preprocessor"
	"github.com/MrWong99/semanticchunker/internal/writer"
	"github.com/MrWong99/semanticchunker/pkg/embedding"
	openaiembed "github.com/MrWong99/semanticchunker/pkg/embedding/openai"
	"github.com/MrWong99/semanticchunker/pkg/llm"
)

// runCmd implements `chunker run <input-path> [--conf <path>] [--force-remote] [--out <path>]`
//. It returns the process exit code.
func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	confPath := fs.String("conf", "", "path to a YAML configuration file")
	forceRemote := fs.Bool("force-remote", false, "override llm.provider to remote for this invocation")
	outPath := fs.String("out", "", "output JSONL path (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: err})
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "chunker run: missing <input-path>")
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: errors.New("missing input path")})
	}
	inputPath := fs.Arg(0)

	cfg, err := loadConfig(*confPath)
	if err != nil {
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: err})
	}
	if *forceRemote {
		cfg.LLM.Provider = "remote"
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	stages, err := buildStages(*cfg, logger)
	if err != nil {
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: err})
	}

	text, err := os.ReadFile(inputPath)
	if err != nil {
		return pipelineerr.Classify(&pipelineerr.StructuralError{Cause: fmt.Errorf("read %q: %w", inputPath, err)})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := pipeline.Run(ctx, stages, string(text))
	if err != nil {
		slog.Error("pipeline run failed", "input", inputPath, "err", err)
		return pipelineerr.Classify(err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return pipelineerr.Classify(&pipelineerr.WriterError{Cause: err})
		}
		defer f.Close()
		out = f
	}

	w := writer.New(out)
	for _, c := range result.Chunks {
		if err := w.WriteChunk(c); err != nil {
			return pipelineerr.Classify(&pipelineerr.WriterError{Cause: err})
		}
	}
	if err := w.Flush(); err != nil {
		return pipelineerr.Classify(&pipelineerr.WriterError{Cause: err})
	}

	slog.Info("run complete", "input", inputPath, "sentences", len(result.Sentences), "chunks", len(result.Chunks))
	return pipelineerr.Classify(nil)
}

// buildStages constructs the pipeline stages from cfg: the provider router
// (backed by whichever of local/remote the mode requires), the embedder, the
// detector, and the builder.
func buildStages(cfg config.Config, logger *slog.Logger) (pipeline.Stages, error) {
	reg := config.NewRegistry()
	registerBuiltinFactories(reg)

	localLLM, remoteLLM, err := buildBackends(cfg, reg)
	if err != nil {
		return pipeline.Stages{}, err
	}

	router := llmrouter.New(localLLM, remoteLLM, llmrouter.Config{
		Mode:          llmrouter.Mode(cfg.LLM.Provider),
		MaxConcurrent: cfg.Runtime.LLMConcurrency,
	}, logger)

	embedProvider, err := buildEmbeddingProvider(cfg, reg)
	if err != nil {
		return pipeline.Stages{}, err
	}

	return pipeline.Stages{
		Preprocessor: preprocessor.New(preprocessor.Config{
			DetectMarkdown:      cfg.DocumentStructure.DetectMarkdown,
			DetectHTML:          cfg.DocumentStructure.DetectHTML,
			DetectIndentation:   cfg.DocumentStructure.DetectIndentation,
			TabWidth:            cfg.DocumentStructure.TabWidth,
			MinHeaderLevel:      cfg.DocumentStructure.MinHeaderLevel,
			MaxHeaderLevel:      cfg.DocumentStructure.MaxHeaderLevel,
			ListIndentThreshold: cfg.DocumentStructure.ListIndentThreshold,
		}),
		Embedder: embedder.New(embedProvider, embedder.Config{BatchSize: cfg.Runtime.BatchSize}, logger),
		Detector: detector.New(router, detector.Config{}),
		Builder: builder.New(builder.Config{
			MaxChars:  cfg.Builder.MaxChars,
			MaxTokens: cfg.Builder.MaxTokens,
			MinChars:  cfg.Builder.MinChars,
		}),
	}, nil
}

// registerBuiltinFactories wires the two llm.Backend kinds and the one
// embedding.Provider implementation the pipeline ships with.
func registerBuiltinFactories(reg *config.Registry) {
	reg.RegisterLLM("local", func(cfg config.Config) (llm.Backend, error) {
		return local.New(cfg.LLM.Local.ServerURL, cfg.LLM.Local.ModelPath, 30*time.Second)
	})
	reg.RegisterLLM("remote", func(cfg config.Config) (llm.Backend, error) {
		return remote.New(cfg.LLM.Remote.APIKey, cfg.LLM.Remote.Model, remote.WithBaseURL(cfg.LLM.Remote.Endpoint))
	})
	reg.RegisterEmbeddings("openai", func(cfg config.Config) (embedding.Provider, error) {
		return openaiembed.New(cfg.LLM.Remote.APIKey, openaiembed.DefaultModel)
	})
}

func buildBackends(cfg config.Config, reg *config.Registry) (localBackend, remoteBackend llm.Backend, err error) {
	switch cfg.LLM.Provider {
	case "local":
		localBackend, err = reg.CreateLLM("local", cfg)
	case "remote":
		remoteBackend, err = reg.CreateLLM("remote", cfg)
	case "auto":
		localBackend, err = reg.CreateLLM("local", cfg)
		if err == nil {
			// auto only requires the local client; a remote that fails to
			// build is not fatal, the run just has no remote backend.
			if rb, rerr := reg.CreateLLM("remote", cfg); rerr == nil {
				remoteBackend = rb
			}
		}
	default:
		err = fmt.Errorf("llm.provider %q is invalid", cfg.LLM.Provider)
	}
	return localBackend, remoteBackend, err
}

func buildEmbeddingProvider(cfg config.Config, reg *config.Registry) (embedding.Provider, error) {
	return reg.CreateEmbeddings("openai", cfg)
}
