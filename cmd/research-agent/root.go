package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/smallnest/researchagent/config"
	"github.com/smallnest/researchagent/log"
	"github.com/smallnest/researchagent/model"
	"github.com/smallnest/researchagent/store"
	"github.com/smallnest/researchagent/store/postgres"
	redisstore "github.com/smallnest/researchagent/store/redis"
	"github.com/smallnest/researchagent/store/sqlite"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	collection string
	storage    string
	storageDir string
	provider   string
	modelName  string
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:   "research-agent",
	Short: "Question answering over your own documents",
	Long: "research-agent ingests documents into a vector store and answers\n" +
		"questions about them with a retrieval-augmented model pipeline.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&rootFlags.collection, "collection", "", "Vector store collection name")
	pf.StringVar(&rootFlags.storage, "storage", "", "Storage backend: memory, sqlite, redis or postgres")
	pf.StringVar(&rootFlags.storageDir, "chroma-dir", "", "Directory holding the sqlite database")
	pf.StringVar(&rootFlags.provider, "provider", "", "Model provider: openai or langchain")
	pf.StringVar(&rootFlags.modelName, "model", "", "Model name passed to the provider")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error or none")

	rootCmd.AddCommand(ragCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(helloCmd)
	rootCmd.Version = version
}

// loadConfig merges the config file, environment and command line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	if rootFlags.collection != "" {
		cfg.Collection = rootFlags.collection
	}
	if rootFlags.storage != "" {
		cfg.Storage = rootFlags.storage
	}
	if rootFlags.storageDir != "" {
		cfg.StorageDir = rootFlags.storageDir
	}
	if rootFlags.provider != "" {
		cfg.Provider = rootFlags.provider
	}
	if rootFlags.modelName != "" {
		cfg.Model = rootFlags.modelName
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.NewGologLogger(golog.New())
	logger.SetLevel(parseLevel(cfg.LogLevel))
	log.SetDefaultLogger(logger)
	return cfg, nil
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	case "none":
		return log.LevelNone
	default:
		return log.LevelInfo
	}
}

// openCollection opens the configured store backend. With create set,
// missing sqlite collections are created instead of rejected.
func openCollection(ctx context.Context, cfg *config.Config, create bool) (store.Collection, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return store.NewMemoryCollection(cfg.Collection, nil), nil
	case config.StorageSQLite:
		opts := sqlite.Options{Dir: cfg.StorageDir, Collection: cfg.Collection}
		if create {
			return sqlite.OpenOrCreate(opts)
		}
		return sqlite.Open(opts)
	case config.StorageRedis:
		return redisstore.New(redisstore.Options{
			Addr:       cfg.RedisAddr,
			Collection: cfg.Collection,
		}), nil
	case config.StoragePostgres:
		return postgres.New(ctx, postgres.Options{
			ConnString: cfg.PostgresURL,
			Collection: cfg.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// newModel builds the generation model for the configured provider.
func newModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case "openai":
		var opts []model.OpenAIOption
		if cfg.APIKey != "" {
			opts = append(opts, model.WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, model.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, model.WithModel(cfg.Model))
		}
		return model.NewOpenAIModel(opts...)
	case "langchain":
		var opts []lcopenai.Option
		if cfg.APIKey != "" {
			opts = append(opts, lcopenai.WithToken(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, lcopenai.WithModel(cfg.Model))
		}
		llm, err := lcopenai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create langchain model: %w", err)
		}
		return model.NewLangChainModel(llm), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
