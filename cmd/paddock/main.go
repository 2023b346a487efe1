// Copyright 2025 Paddock Pal
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	paddock "github.com/paddockpal/paddock"
	"github.com/paddockpal/paddock/ai"
	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/extract"
	"github.com/paddockpal/paddock/extract/local"
	"github.com/paddockpal/paddock/extract/ocr"
	"github.com/paddockpal/paddock/ingest"
	"github.com/paddockpal/paddock/objstore"
	"github.com/paddockpal/paddock/objstore/fs"
	"github.com/paddockpal/paddock/objstore/gcs"
	"github.com/paddockpal/paddock/reindex"
	"github.com/paddockpal/paddock/vecstore"
	badgerstore "github.com/paddockpal/paddock/vecstore/badger"
	"github.com/paddockpal/paddock/vecstore/pgvector"
)

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "Cloud storage bucket holding regulation PDFs",
			EnvVars: []string{"PADDOCK_BUCKET"},
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Local directory holding regulation PDFs (instead of a bucket)",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the BadgerDB vector store directory",
			EnvVars: []string{"PADDOCK_DB"},
		},
		&cli.StringFlag{
			Name:    "dsn",
			Usage:   "PostgreSQL DSN for the pgvector store (instead of BadgerDB)",
			EnvVars: []string{"PADDOCK_DSN"},
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible API host",
			Value:   "https://api.openai.com/v1",
			EnvVars: []string{"PADDOCK_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI service",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name for answers",
			Value: "gpt-4o-mini",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding dimension (0 resolves from the model name)",
		},
	}
}

func ocrFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ocr-url",
			Usage:   "Remote OCR service URL; empty selects local PDF conversion",
			EnvVars: []string{"PADDOCK_OCR_URL"},
		},
		&cli.StringFlag{
			Name:    "ocr-client-id",
			Usage:   "OCR service client id",
			EnvVars: []string{"PADDOCK_OCR_CLIENT_ID"},
		},
		&cli.StringFlag{
			Name:    "ocr-client-secret",
			Usage:   "OCR service client secret",
			EnvVars: []string{"PADDOCK_OCR_CLIENT_SECRET"},
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "paddock",
		Usage: "Formula 1 regulations question answering",
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
				Name:   "ingest",
				Usage:  "Ingest regulation PDFs into the vector indexes",
				Action: ingestCommand,
				Flags: append(append(append(storeFlags(), aiFlags()...), ocrFlags()...),
					&cli.StringSliceFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Categories to ingest (sporting, technical, financial, related); default all",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in characters",
						Value: 2000,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Chunks embedded and upserted per batch",
						Value: ingest.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent documents (0 uses half the CPUs)",
					},
					&cli.BoolFlag{
						Name:  "sequential",
						Usage: "Process documents one at a time",
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the regulation indexes",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     append(storeFlags(), aiFlags()...),
			},
			{
				Name:  "index",
				Usage: "Manage vector indexes",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List indexes with dimension and metric",
						Action: indexListCommand,
						Flags:  storeFlags(),
					},
					{
						Name:      "create",
						Usage:     "Create an index",
						ArgsUsage: "<name>",
						Action:    indexCreateCommand,
						Flags: append(storeFlags(),
							&cli.IntFlag{
								Name:     "dimension",
								Usage:    "Embedding dimension",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "metric",
								Usage: "Similarity metric (cosine, euclidean)",
								Value: "cosine",
							},
						),
					},
					{
						Name:      "delete",
						Usage:     "Delete an index and all its records",
						ArgsUsage: "<name>",
						Action:    indexDeleteCommand,
						Flags:     storeFlags(),
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed mirrored chunk text into a target index",
				Action: reindexCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.StringFlag{
						Name:     "category",
						Aliases:  []string{"c"},
						Usage:    "Category whose mirrored chunks to re-embed",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "target-index",
						Usage: "Target index name (default the category's index)",
					},
					&cli.BoolFlag{
						Name:  "normalize",
						Usage: "Normalize vectors to unit length before upserting",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Chunks embedded per batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildObjectStore(ctx context.Context, c *cli.Context) (objstore.Store, error) {
	if bucket := c.String("bucket"); bucket != "" {
		return gcs.New(ctx, bucket)
	}
	if dir := c.String("data-dir"); dir != "" {
		return fs.New(dir)
	}
	return nil, fmt.Errorf("either --bucket or --data-dir is required")
}

func buildVectorStore(c *cli.Context) (vecstore.Store, error) {
	if dsn := c.String("dsn"); dsn != "" {
		return pgvector.New(dsn)
	}
	if db := c.String("db"); db != "" {
		backend, err := badgerstore.OpenBackend(db, false)
		if err != nil {
			return nil, err
		}
		return badgerstore.NewStore(backend), nil
	}
	return nil, fmt.Errorf("either --dsn or --db is required")
}

func buildAIConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithToken(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithDimension(c.Int("dimension")),
	)
}

func buildExtractor(c *cli.Context) (extract.Extractor, error) {
	if url := c.String("ocr-url"); url != "" {
		return ocr.New(ocr.Config{
			BaseURL:      url,
			ClientID:     c.String("ocr-client-id"),
			ClientSecret: c.String("ocr-client-secret"),
		})
	}
	return local.New(), nil
}

func parseCategories(c *cli.Context) ([]core.Category, error) {
	names := c.StringSlice("category")
	if len(names) == 0 {
		return core.Categories(), nil
	}
	categories := make([]core.Category, 0, len(names))
	for _, name := range names {
		category, err := core.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func newAssistant(ctx context.Context, c *cli.Context, opts ...paddock.AssistantOption) (*paddock.Assistant, error) {
	docs, err := buildObjectStore(ctx, c)
	if err != nil {
		return nil, err
	}
	vectors, err := buildVectorStore(c)
	if err != nil {
		docs.Close()
		return nil, err
	}

	opts = append([]paddock.AssistantOption{paddock.WithAIConfig(buildAIConfig(c))}, opts...)
	assistant, err := paddock.NewAssistant(docs, vectors, opts...)
	if err != nil {
		vectors.Close()
		docs.Close()
		return nil, err
	}
	return assistant, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	categories, err := parseCategories(c)
	if err != nil {
		return err
	}

	extractor, err := buildExtractor(c)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	assistant, err := newAssistant(ctx, c, paddock.WithExtractor(extractor))
	if err != nil {
		return err
	}
	defer assistant.Close()

	opts := []ingest.Option{
		ingest.WithChunkSize(c.Int("chunk-size")),
		ingest.WithBatchSize(c.Int("batch-size")),
	}
	if c.Bool("sequential") {
		opts = append(opts, ingest.WithMode(ingest.ModeSequential))
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingest.WithPoolSize(size))
	}

	pipeline, err := assistant.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.Run(ctx, categories...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d documents, %d failed\n", report.Succeeded(), report.FailedCount())
	for _, failure := range report.Failures() {
		fmt.Printf("  FAILED %s (after %s): %v\n", failure.Key, failure.LastStage, failure.Err)
	}
	if report.FailedCount() > 0 {
		return fmt.Errorf("%d documents failed", report.FailedCount())
	}
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	assistant, err := newAssistant(ctx, c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	service, err := assistant.NewAnswerService(ctx)
	if err != nil {
		return fmt.Errorf("failed to create answer service: %w", err)
	}

	result, err := service.Ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(result.Text)
	fmt.Println()
	for _, passage := range result.Passages {
		fmt.Printf("  [%0.3f] %s (%s)\n", passage.Score, passage.ID, passage.SourceKey)
	}
	return nil
}

func indexListCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := buildVectorStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	specs, err := store.ListIndexes(ctx)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		fmt.Println("No indexes")
		return nil
	}
	for _, spec := range specs {
		fmt.Printf("%s\tdimension=%d\tmetric=%s\n", spec.Name, spec.Dimension, spec.Metric)
	}
	return nil
}

func indexCreateCommand(c *cli.Context) error {
	ctx := context.Background()

	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("an index name is required")
	}

	metric := core.Metric(c.String("metric"))
	if !metric.Valid() {
		return fmt.Errorf("invalid metric %q: must be cosine or euclidean", c.String("metric"))
	}

	store, err := buildVectorStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	spec := core.IndexSpec{
		Name:      name,
		Dimension: c.Int("dimension"),
		Metric:    metric,
	}
	if err := store.EnsureIndex(ctx, spec); err != nil {
		return err
	}
	fmt.Printf("Created index %s (dimension=%d, metric=%s)\n", spec.Name, spec.Dimension, spec.Metric)
	return nil
}

func indexDeleteCommand(c *cli.Context) error {
	ctx := context.Background()

	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("an index name is required")
	}

	store, err := buildVectorStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteIndex(ctx, name); err != nil {
		return err
	}
	fmt.Printf("Deleted index %s\n", name)
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	category, err := core.ParseCategory(c.String("category"))
	if err != nil {
		return err
	}

	assistant, err := newAssistant(ctx, c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Normalize:      c.Bool("normalize"),
	}

	reindexer, err := assistant.NewReindexer(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reindexer: %w", err)
	}

	targetName := c.String("target-index")
	if targetName == "" {
		targetName = core.IndexName(category)
	}
	aiConfig := buildAIConfig(c)
	aiConfig.Normalize()

	target := core.IndexSpec{
		Name:      targetName,
		Dimension: aiConfig.Dimension,
		Metric:    core.MetricCosine,
	}

	if err := reindexer.Run(ctx, category, target); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
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
