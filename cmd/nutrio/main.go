// Package main is the Nutrio CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/assistant"
	"github.com/fitlife/nutrio/internal/calculator"
	"github.com/fitlife/nutrio/internal/config"
	"github.com/fitlife/nutrio/internal/dataset"
	"github.com/fitlife/nutrio/internal/embedding"
	"github.com/fitlife/nutrio/internal/keyword"
	"github.com/fitlife/nutrio/internal/mealplan"
	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/internal/rag"
	"github.com/fitlife/nutrio/internal/recommend"
	"github.com/fitlife/nutrio/internal/server"
	"github.com/fitlife/nutrio/internal/storage"
	"github.com/fitlife/nutrio/internal/vector"
	"github.com/fitlife/nutrio/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/nutrio/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "needs":
		runNeeds()
	case "recommend":
		runRecommend()
	case "plan":
		runPlan()
	case "ask":
		runAsk()
	case "query":
		runQuery()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("nutrio version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// profileFlags registers the shared profile flags on fs.
type profileFlags struct {
	weight       *float64
	height       *float64
	age          *int
	sex          *string
	activity     *string
	goal         *string
	targetWeight *float64
}

func registerProfileFlags(fs *flag.FlagSet) *profileFlags {
	return &profileFlags{
		weight:       fs.Float64("weight", 0, "body weight in kg"),
		height:       fs.Float64("height", 0, "height in cm"),
		age:          fs.Int("age", 0, "age in years"),
		sex:          fs.String("sex", "", "male or female"),
		activity:     fs.String("activity", models.ActivityModeratelyActive, "activity level (sedentary, lightly_active, moderately_active, very_active, extremely_active)"),
		goal:         fs.String("goal", string(models.GoalMaintenance), "goal (weight_loss, maintenance, muscle_gain)"),
		targetWeight: fs.Float64("target-weight", 0, "target body weight in kg (optional)"),
	}
}

func (pf *profileFlags) profile() (*models.UserProfile, error) {
	p := &models.UserProfile{
		WeightKg:       *pf.weight,
		HeightCm:       *pf.height,
		Age:            *pf.age,
		Sex:            *pf.sex,
		ActivityLevel:  *pf.activity,
		Goal:           models.Goal(*pf.goal),
		TargetWeightKg: *pf.targetWeight,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (dataset reloads, query routing, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	srv := server.NewServer(components.serverComponents(), store, cfg, logger)

	var watch *dataset.Watcher
	if cfg.Dataset.WatchOrDefault() {
		watch = dataset.NewWatcher(cfg.Dataset.Path, func(path string) {
			if err := components.Reload(path); err != nil {
				logger.Warn("dataset reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			srv.Swap(components.serverComponents())
			logger.Info("dataset reloaded", zap.String("path", path), zap.Int("foods", len(components.foods)))
		}, logger)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watch.Start(watchCtx); err != nil {
			logger.Warn("dataset watch disabled", zap.Error(err))
			watch = nil
		}
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watch != nil {
		watch.Stop()
	}
	if cfg.Storage.VectorIndexPath != "" && components.vectorIndex != nil {
		if err := components.vectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
			logger.Warn("vector index save failed",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runNeeds() {
	fs := flag.NewFlagSet("needs", flag.ExitOnError)
	pf := registerProfileFlags(fs)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	profile, err := pf.profile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile: %v\n", err)
		os.Exit(1)
	}
	needs := calculator.ComputeNeeds(profile)
	bmi := calculator.BMIFor(profile)

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]interface{}{"needs": needs, "bmi": bmi})
		return
	}

	fmt.Printf("BMR:               %.0f kcal\n", needs.BMR)
	fmt.Printf("TDEE:              %.0f kcal\n", needs.TDEE)
	fmt.Printf("Target calories:   %.0f kcal (%s)\n", needs.TargetCalories, needs.Goal)
	fmt.Printf("Protein:           %.0fg (%.0f%%)\n", needs.Macros.ProteinG, needs.Macros.ProteinPct)
	fmt.Printf("Carbs:             %.0fg (%.0f%%)\n", needs.Macros.CarbsG, needs.Macros.CarbsPct)
	fmt.Printf("Fat:               %.0fg (%.0f%%)\n", needs.Macros.FatG, needs.Macros.FatPct)
	fmt.Printf("Water:             %.1f L/day\n", needs.WaterLiters)
	fmt.Printf("BMI:               %.1f (%s)\n", bmi.BMI, bmi.Category)
	if needs.DurationMessage != "" {
		fmt.Printf("Timeline:          %s\n", needs.DurationMessage)
	}
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	pf := registerProfileFlags(fs)
	limit := fs.Int("limit", 10, "number of recommendations")
	minProtein := fs.Float64("min-protein", 0, "minimum protein per 100g")
	maxCalories := fs.Float64("max-calories", 0, "maximum calories per 100g")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	profile, err := pf.profile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile: %v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	foods, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
		os.Exit(1)
	}
	engine := recommend.NewEngine(foods)

	needs := calculator.ComputeNeeds(profile)
	ranked := engine.Recommend(needs.Target(), *limit, recommend.Options{
		MinProtein:  *minProtein,
		MaxCalories: *maxCalories,
	})

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(ranked)
		return
	}
	for i, r := range ranked {
		fmt.Printf("%2d. %-30s %4.0f kcal  %5.1fg protein  match %.1f%%\n",
			i+1, r.Food.Name, r.Food.Calories, r.Food.Protein, r.MatchPercentage)
	}
}

func runPlan() {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	pf := registerProfileFlags(fs)
	days := fs.Int("days", 0, "number of days to plan (default from config)")
	meals := fs.Int("meals", 0, "meals per day (default from config)")
	seed := fs.Int64("seed", 0, "random seed (0 = time-based)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	profile, err := pf.profile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile: %v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	foods, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
		os.Exit(1)
	}
	engine := recommend.NewEngine(foods)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	planner := mealplan.NewPlanner(engine, rand.New(rand.NewSource(*seed)), zap.NewNop())

	prefs := models.PlanPreferences{MealsPerDay: cfg.Plan.MealsPerDay, VarietyDays: cfg.Plan.VarietyDays}
	if *meals > 0 {
		prefs.MealsPerDay = *meals
	}
	if *days > 0 {
		prefs.VarietyDays = *days
	}

	needs := calculator.ComputeNeeds(profile)
	week := planner.GenerateWeekPlan(needs, prefs)
	stats := mealplan.Stats(week)

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]interface{}{"plan": week, "stats": stats})
		return
	}
	fmt.Print(mealplan.RenderText(mealplan.FormatForDisplay(week)))
	fmt.Printf("\nAverage: %.0f kcal/day, %.0fg protein/day. Variety score: %.0f%%\n",
		stats.AvgDailyCalories, stats.AvgDailyProtein, stats.VarietyScore)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	pf := registerProfileFlags(fs)
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: nutrio ask [flags] <question>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: nutrio ask [flags] <question>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	foods, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
		os.Exit(1)
	}
	engine := recommend.NewEngine(foods)

	var profile *models.UserProfile
	var needs *models.NutritionalNeeds
	if p, err := pf.profile(); err == nil {
		profile = p
		needs = calculator.ComputeNeeds(p)
	}

	asst := assistant.New(engine, zap.NewNop())
	answer := asst.AnswerFor(query, profile, needs)
	fmt.Println(answer.Response)
}

func runQuery() {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	k := fs.Int("k", 10, "number of foods to retrieve")
	category := fs.String("category", "", "restrict to a food category")
	minProtein := fs.Float64("min-protein", 0, "minimum protein per 100g")
	maxCalories := fs.Float64("max-calories", 0, "maximum calories per 100g")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: nutrio query [flags] <question>")
		os.Exit(1)
	}
	queryStr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if queryStr == "" {
		fmt.Println("Usage: nutrio query [flags] <question>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	result, err := components.pipeline.Query(context.Background(), models.RAGQuery{
		Query: queryStr,
		K:     *k,
		Filters: models.RetrievalFilters{
			Category:    *category,
			MinProtein:  *minProtein,
			MaxCalories: *maxCalories,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}
	fmt.Println(result.Response)
	if len(result.Foods) > 0 {
		fmt.Printf("\nMatched %d food(s):\n", result.MatchCount)
		for _, f := range result.Foods {
			fmt.Printf("  - %s (%.0f kcal, %.1fg protein)\n", f.Food.Name, f.Food.Calories, f.Food.Protein)
		}
	}
}

type statusConfigResponse struct {
	DatasetPath         string `json:"dataset_path"`
	EmbeddingProvider   string `json:"embedding_provider"`
	EmbeddingDimensions int    `json:"embedding_dimensions"`
	RetrievalDefaultK   int    `json:"retrieval_default_k"`
}

type statusResponse struct {
	Foods           int                   `json:"foods"`
	Profiles        *int64                `json:"profiles,omitempty"`
	ProgressEntries *int64                `json:"progress_entries,omitempty"`
	Config          *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read local data directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		foods, err := dataset.Load(cfg.Dataset.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Foods: len(foods),
			Config: &statusConfigResponse{
				DatasetPath:         cfg.Dataset.Path,
				EmbeddingProvider:   cfg.Embedding.Provider,
				EmbeddingDimensions: cfg.Embedding.Dimensions,
				RetrievalDefaultK:   cfg.Retrieval.DefaultK,
			},
		}
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err == nil {
			defer store.Close()
			ctx := context.Background()
			if n, countErr := store.CountProfiles(ctx); countErr == nil {
				status.Profiles = &n
			}
			if n, countErr := store.CountProgress(ctx); countErr == nil {
				status.ProgressEntries = &n
			}
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("foods:              %d   # foods in the dataset\n", status.Foods)
		if status.Profiles != nil {
			fmt.Printf("profiles:           %d\n", *status.Profiles)
		}
		if status.ProgressEntries != nil {
			fmt.Printf("progress_entries:   %d\n", *status.ProgressEntries)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("dataset_path:       %s\n", status.Config.DatasetPath)
			fmt.Printf("embedding_provider: %s\n", status.Config.EmbeddingProvider)
			fmt.Printf("embedding_dims:     %d\n", status.Config.EmbeddingDimensions)
			fmt.Printf("default_k:          %d\n", status.Config.RetrievalDefaultK)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// components holds the dataset-derived services for direct (non-server) use
// and for swapping on dataset reload.
type components struct {
	cfg    *config.Config
	logger *zap.Logger

	foods       []*models.FoodItem
	engine      *recommend.Engine
	planner     *mealplan.Planner
	embedder    embedding.Embedder
	vectorIndex *vector.MemoryIndex
	keywords    *keyword.Index
	retriever   *rag.Retriever
	pipeline    *rag.Pipeline
	assistant   *assistant.Assistant
}

func (c *components) serverComponents() *server.Components {
	return &server.Components{
		Engine:    c.engine,
		Planner:   c.planner,
		Pipeline:  c.pipeline,
		Assistant: c.assistant,
	}
}

func (c *components) Close() {
	if c.embedder != nil {
		_ = c.embedder.Close()
	}
	if c.vectorIndex != nil {
		_ = c.vectorIndex.Close()
	}
	if c.keywords != nil {
		_ = c.keywords.Close()
	}
}

// Reload reloads the food table from path and rebuilds every dataset-derived
// service. The old services keep serving until the swap.
func (c *components) Reload(path string) error {
	foods, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("failed to reload dataset: %w", err)
	}
	return c.rebuild(foods, true)
}

// rebuild replaces the dataset-derived services. A warm-started vector index
// whose snapshot already covers the dataset is kept unless force is set.
func (c *components) rebuild(foods []*models.FoodItem, force bool) error {
	engine := recommend.NewEngine(foods)

	if force || c.vectorIndex.Size() != len(foods) {
		c.vectorIndex.Reset()
		if err := indexFoods(c.embedder, c.vectorIndex, c.keywords, foods); err != nil {
			return err
		}
	} else if c.keywords != nil {
		if err := c.keywords.IndexFoods(context.Background(), foods); err != nil {
			return fmt.Errorf("failed to index keywords: %w", err)
		}
	}

	generators := buildGenerators(&c.cfg.LLM)
	retriever := rag.NewRetriever(foods, c.embedder, c.vectorIndex, c.keywords, c.logger)

	c.foods = foods
	c.engine = engine
	c.planner = mealplan.NewPlanner(engine, rand.New(rand.NewSource(time.Now().UnixNano())), c.logger)
	c.retriever = retriever
	c.pipeline = rag.NewPipeline(retriever, generators, c.logger)
	c.assistant = assistant.New(engine, c.logger)
	return nil
}

// indexFoods embeds the food descriptions into the vector index and reindexes
// the keyword index. Both are keyed by food name, so reindexing overwrites.
func indexFoods(embedder embedding.Embedder, vecIdx *vector.MemoryIndex, keywords *keyword.Index, foods []*models.FoodItem) error {
	ctx := context.Background()
	ids := make([]string, len(foods))
	texts := make([]string, len(foods))
	for i, f := range foods {
		ids[i] = f.Name
		texts[i] = dataset.Describe(f)
	}
	vecs, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed foods: %w", err)
	}
	if err := vecIdx.Add(ctx, ids, vecs); err != nil {
		return fmt.Errorf("failed to index vectors: %w", err)
	}
	if keywords != nil {
		if err := keywords.IndexFoods(ctx, foods); err != nil {
			return fmt.Errorf("failed to index keywords: %w", err)
		}
	}
	return nil
}

func buildGenerators(cfg *config.LLMConfig) []rag.Generator {
	opts := rag.GenerateOptions{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
	var generators []rag.Generator
	if cfg.OllamaURL != "" {
		generators = append(generators, rag.NewOllamaGenerator(cfg.OllamaURL, cfg.OllamaModel, opts))
	}
	if cfg.HuggingFaceToken != "" {
		generators = append(generators, rag.NewHuggingFaceGenerator("", cfg.HuggingFaceModel, cfg.HuggingFaceToken, opts))
	}
	return generators
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	foods, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info("dataset loaded", zap.String("path", cfg.Dataset.Path), zap.Int("foods", len(foods)))

	var embedder embedding.Embedder
	if cfg.Embedding.Provider == "onnx" {
		onnxEmbedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			logger.Warn("onnx embedder unavailable, falling back to hash embedder", zap.Error(err))
			embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
		} else {
			embedder = onnxEmbedder
		}
	} else {
		embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	}

	vecIdx, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := vecIdx.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			logger.Warn("vector index load skipped",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(loadErr))
		}
	}

	keywords, err := keyword.NewIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	c := &components{
		cfg:         cfg,
		logger:      logger,
		embedder:    embedder,
		vectorIndex: vecIdx,
		keywords:    keywords,
	}
	if err := c.rebuild(foods, false); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func printUsage() {
	fmt.Println(`nutrio - Personalized nutrition recommendation engine

Usage:
  nutrio server [flags]               Start the HTTP server
  nutrio needs [flags]                Compute daily nutritional needs
  nutrio recommend [flags]            Rank foods against your needs
  nutrio plan [flags]                 Generate a meal plan
  nutrio ask [flags] <question>       Ask the nutrition assistant
  nutrio query [flags] <question>     Retrieval-augmented food query
  nutrio status [flags]               Show dataset and storage counts
  nutrio version                      Show version
  nutrio help                         Show this help

Profile Flags (needs, recommend, plan, ask):
  --weight float          Body weight in kg
  --height float          Height in cm
  --age int               Age in years
  --sex string            male or female
  --activity string       Activity level (default: moderately_active)
  --goal string           weight_loss, maintenance, or muscle_gain (default: maintenance)
  --target-weight float   Target body weight in kg (optional)

Server Flags:
  --config string    Config file path (default: /usr/local/etc/nutrio/config.yaml)
  --debug            Enable debug logging

Examples:
  nutrio server
  nutrio needs --weight 80 --height 180 --age 30 --sex male --goal muscle_gain
  nutrio recommend --weight 70 --height 165 --age 28 --sex female --goal weight_loss --limit 5
  nutrio plan --weight 80 --height 180 --age 30 --sex male --days 7 --meals 4
  nutrio ask --weight 80 --height 180 --age 30 --sex male "suggest a breakfast"
  nutrio query "high protein foods for muscle gain"`)
}
