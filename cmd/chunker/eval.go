package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrWong99/semanticchunker/internal/evalmetrics"
	"github.com/MrWong99/semanticchunker/internal/pipeline"
	"github.com/MrWong99/semanticchunker/internal/pipelineerr"
)

// goldFileSuffix identifies a gold-label file; its matching source document
// shares the same base name with ".txt" instead.
const goldFileSuffix = ".gold.json"

// evalCmd implements `chunker eval --gold <dir>`: it runs the
// pipeline over every document in dir that has a matching gold file, scores
// the predicted boundaries against the gold labels, and prints an aggregate
// precision/recall/F1. A low score still exits 0 — it is a result, not a
// usage error; configuration errors and an unreadable gold directory exit
// non-zero.
func evalCmd(args []string) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	confPath := fs.String("conf", "", "path to a YAML configuration file")
	goldDir := fs.String("gold", "", "directory of *.txt documents paired with *.gold.json boundary labels")
	if err := fs.Parse(args); err != nil {
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: err})
	}
	if *goldDir == "" {
		fmt.Fprintln(os.Stderr, "chunker eval: --gold is required")
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: errors.New("missing --gold")})
	}

	cfg, err := loadConfig(*confPath)
	if err != nil {
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: err})
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	stages, err := buildStages(*cfg, logger)
	if err != nil {
		return pipelineerr.Classify(&pipelineerr.ConfigError{Cause: err})
	}

	pairs, err := findGoldPairs(*goldDir)
	if err != nil {
		return pipelineerr.Classify(&pipelineerr.StructuralError{Cause: err})
	}
	if len(pairs) == 0 {
		fmt.Fprintf(os.Stderr, "chunker eval: no *.gold.json files with a matching .txt found in %s\n", *goldDir)
		return pipelineerr.Classify(nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var total evalmetrics.Score
	for _, p := range pairs {
		score, err := evalOne(ctx, stages, p)
		if err != nil {
			slog.Error("eval: skipping document", "doc", p.docPath, "err", err)
			continue
		}
		fmt.Printf("%s: %s\n", filepath.Base(p.docPath), score)
		total.TruePositives += score.TruePositives
		total.FalsePositives += score.FalsePositives
		total.FalseNegatives += score.FalseNegatives
	}
	total = evalmetrics.Score{
		TruePositives:  total.TruePositives,
		FalsePositives: total.FalsePositives,
		FalseNegatives: total.FalseNegatives,
	}
	if total.TruePositives+total.FalsePositives > 0 {
		total.Precision = float64(total.TruePositives) / float64(total.TruePositives+total.FalsePositives)
	}
	if total.TruePositives+total.FalseNegatives > 0 {
		total.Recall = float64(total.TruePositives) / float64(total.TruePositives+total.FalseNegatives)
	}
	if total.Precision+total.Recall > 0 {
		total.F1 = 2 * total.Precision * total.Recall / (total.Precision + total.Recall)
	}
	fmt.Printf("overall: %s\n", total)

	return pipelineerr.Classify(nil)
}

type goldPair struct {
	docPath  string
	goldPath string
}

func findGoldPairs(dir string) ([]goldPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read gold dir %q: %w", dir, err)
	}

	var pairs []goldPair
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), goldFileSuffix) {
			continue
		}
		base := strings.TrimSuffix(e.Name(), goldFileSuffix)
		docPath := filepath.Join(dir, base+".txt")
		if _, err := os.Stat(docPath); err != nil {
			slog.Warn("eval: gold file has no matching document, skipping", "gold", e.Name(), "want", docPath)
			continue
		}
		pairs = append(pairs, goldPair{docPath: docPath, goldPath: filepath.Join(dir, e.Name())})
	}
	return pairs, nil
}

func evalOne(ctx context.Context, stages pipeline.Stages, p goldPair) (evalmetrics.Score, error) {
	text, err := os.ReadFile(p.docPath)
	if err != nil {
		return evalmetrics.Score{}, err
	}
	goldRaw, err := os.ReadFile(p.goldPath)
	if err != nil {
		return evalmetrics.Score{}, err
	}
	var gold []evalmetrics.GoldBoundary
	dec := json.NewDecoder(bytes.NewReader(goldRaw))
	for {
		var g evalmetrics.GoldBoundary
		if err := dec.Decode(&g); err == io.EOF {
			break
		} else if err != nil {
			return evalmetrics.Score{}, fmt.Errorf("parse %q: %w", p.goldPath, err)
		}
		gold = append(gold, g)
	}

	result, err := pipeline.Run(ctx, stages, string(text))
	if err != nil {
		return evalmetrics.Score{}, err
	}

	return evalmetrics.Evaluate(result.Boundaries, gold), nil
}
