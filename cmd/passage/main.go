// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/passage/ai"
	"github.com/poiesic/passage/ai/openai"
	"github.com/poiesic/passage/chunk"
	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/index"
	"github.com/poiesic/passage/index/chroma"
	"github.com/poiesic/passage/index/local"
	"github.com/poiesic/passage/ingestion"
	"github.com/poiesic/passage/search"
	"github.com/poiesic/passage/server"
	"github.com/poiesic/passage/upload"
)

func main() {
	// Best-effort .env loading; flags and real env vars win.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "passage",
		Usage: "Metadata-filtered document retrieval pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the ingestion and query HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"PASSAGE_ADDR"},
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"PASSAGE_EMBED_HOST"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						Value:   "all-minilm",
						EnvVars: []string{"PASSAGE_EMBED_MODEL"},
					},
					&cli.IntFlag{
						Name:    "chunk-size",
						Usage:   "Chunk window size in text units",
						Value:   chunk.DefaultSize,
						EnvVars: []string{"PASSAGE_CHUNK_SIZE"},
					},
					&cli.IntFlag{
						Name:    "chunk-overlap",
						Usage:   "Overlap between consecutive chunks in text units",
						Value:   chunk.DefaultOverlap,
						EnvVars: []string{"PASSAGE_CHUNK_OVERLAP"},
					},
					&cli.StringFlag{
						Name:    "tokenizer",
						Usage:   "Token encoding for chunking (e.g. cl100k_base); empty splits by rune",
						EnvVars: []string{"PASSAGE_TOKENIZER"},
					},
					&cli.IntFlag{
						Name:    "top-k",
						Usage:   "Default result count for queries",
						Value:   search.DefaultTopK,
						EnvVars: []string{"PASSAGE_TOP_K"},
					},
					&cli.IntFlag{
						Name:    "candidate-size",
						Usage:   "Fixed candidate pool size; 0 derives it from top-k",
						EnvVars: []string{"PASSAGE_CANDIDATE_SIZE"},
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the local vector store directory; empty selects Chroma",
						EnvVars: []string{"PASSAGE_DB"},
					},
					&cli.StringFlag{
						Name:    "collection",
						Usage:   "Vector store collection name",
						Value:   local.DefaultCollection,
						EnvVars: []string{"PASSAGE_COLLECTION"},
					},
					&cli.StringFlag{
						Name:    "chroma-host",
						Usage:   "Chroma server host",
						EnvVars: []string{"CHROMA_HOST"},
					},
					&cli.IntFlag{
						Name:    "chroma-port",
						Usage:   "Chroma server port",
						Value:   8000,
						EnvVars: []string{"CHROMA_PORT"},
					},
					&cli.StringFlag{
						Name:    "chroma-tenant",
						Usage:   "Chroma tenant",
						Value:   "default_tenant",
						EnvVars: []string{"CHROMA_TENANT"},
					},
					&cli.StringFlag{
						Name:    "chroma-database",
						Usage:   "Chroma database",
						Value:   "default_database",
						EnvVars: []string{"CHROMA_DATABASE"},
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Upload local files to a running server",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags:     append(clientFlags(), metaFlags()...),
			},
			{
				Name:      "ingest-urls",
				Usage:     "Ask a running server to fetch and ingest URLs",
				ArgsUsage: "URL [URL...]",
				Action:    ingestURLsCommand,
				Flags:     append(clientFlags(), metaFlags()...),
			},
			{
				Name:      "query",
				Usage:     "Run a metadata-filtered query against a running server",
				ArgsUsage: "QUESTION",
				Action:    queryCommand,
				Flags: append(clientFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Usage:   "Number of passages to return",
						Value:   search.DefaultTopK,
						EnvVars: []string{"PASSAGE_TOP_K"},
					},
					&cli.StringFlag{
						Name:  "version",
						Usage: "Require an exact document version",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Require an exact document source",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Require a tag; repeatable, all must be present",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Base URL of the passage server",
			Value:   "http://localhost:8080",
			EnvVars: []string{"PASSAGE_SERVER"},
		},
	}
}

func metaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "version",
			Usage: "Document version to record on every chunk",
		},
		&cli.StringFlag{
			Name:  "tags",
			Usage: "Comma-separated tags to record on every chunk",
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "Source label to record on every chunk",
		},
		&cli.IntFlag{
			Name:  "retry-limit",
			Usage: "Extra attempts per file on failure (0-3)",
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Fixed delay between attempts",
			Value: upload.DefaultRetryDelay,
		},
	}
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid embedding configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	gateway, err := openGateway(ctx, c, embedder)
	if err != nil {
		return err
	}
	defer gateway.Close()

	splitterOpts := []chunk.Option{}
	if encoding := c.String("tokenizer"); encoding != "" {
		tok, err := chunk.NewTokenTokenizer(encoding)
		if err != nil {
			return fmt.Errorf("invalid tokenizer encoding: %w", err)
		}
		splitterOpts = append(splitterOpts, chunk.WithTokenizer(tok))
	}
	splitter, err := chunk.NewSplitter(c.Int("chunk-size"), c.Int("chunk-overlap"), splitterOpts...)
	if err != nil {
		return fmt.Errorf("invalid chunking configuration: %w", err)
	}

	pipeline, err := ingestion.NewPipeline(gateway, splitter)
	if err != nil {
		return err
	}

	retrieverOpts := []search.Option{search.WithTopK(c.Int("top-k"))}
	if size := c.Int("candidate-size"); size > 0 {
		retrieverOpts = append(retrieverOpts, search.WithCandidateSize(size))
	}
	retriever, err := search.NewRetriever(gateway, retrieverOpts...)
	if err != nil {
		return err
	}

	srv, err := server.New(pipeline, retriever)
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		if err := srv.Shutdown(); err != nil {
			slog.Error("shutdown failed", "err", err)
		}
	}()

	return srv.Listen(c.String("addr"))
}

// openGateway picks the vector store: a local embedded store when a database
// path is set, otherwise a remote Chroma server.
func openGateway(ctx context.Context, c *cli.Context, embedder ai.Embedder) (index.Gateway, error) {
	if dbPath := c.String("db"); dbPath != "" {
		store, err := local.Open(dbPath, embedder, local.WithCollection(c.String("collection")))
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		return store, nil
	}

	host := c.String("chroma-host")
	if host == "" {
		return nil, fmt.Errorf("either --db or --chroma-host must be set")
	}

	store, err := chroma.New(ctx, chroma.Config{
		Host:       host,
		Port:       c.Int("chroma-port"),
		Tenant:     c.String("chroma-tenant"),
		Database:   c.String("chroma-database"),
		Collection: c.String("collection"),
	}, embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chroma: %w", err)
	}
	return store, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	client, err := upload.NewClient(c.String("server"))
	if err != nil {
		return err
	}

	meta := core.DocumentMeta{
		Version: c.String("version"),
		Tags:    c.String("tags"),
		Source:  c.String("source"),
	}

	uploads := make([]upload.Upload, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, upload.Upload{
			Name: filepath.Base(path),
			Data: data,
			Meta: meta,
		})
	}

	orchestrator, err := upload.NewOrchestrator(client.IngestFile,
		upload.WithRetryLimit(c.Int("retry-limit")),
		upload.WithRetryDelay(c.Duration("retry-delay")),
		upload.WithProgress(os.Stderr))
	if err != nil {
		return err
	}

	state, err := orchestrator.Run(c.Context, uploads)
	if err != nil {
		return fmt.Errorf("batch terminated: %w", err)
	}
	return printJSON(state)
}

func ingestURLsCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one URL argument is required")
	}

	client, err := upload.NewClient(c.String("server"))
	if err != nil {
		return err
	}

	meta := core.DocumentMeta{
		Version: c.String("version"),
		Tags:    c.String("tags"),
		Source:  c.String("source"),
	}

	result, err := client.IngestURLs(c.Context, c.Args().Slice(), meta)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question argument is required")
	}

	client, err := upload.NewClient(c.String("server"))
	if err != nil {
		return err
	}

	var filter *core.QueryFilter
	if c.String("version") != "" || c.String("source") != "" || len(c.StringSlice("tag")) > 0 {
		filter = &core.QueryFilter{
			Version: c.String("version"),
			Source:  c.String("source"),
			Tags:    c.StringSlice("tag"),
		}
	}

	ctx, cancel := context.WithTimeout(c.Context, 60*time.Second)
	defer cancel()

	items, err := client.Query(ctx, question, c.Int("top-k"), filter)
	if err != nil {
		return err
	}
	return printJSON(items)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
