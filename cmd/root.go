package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/extract"
	"github.com/spigell/lazyhunt/internal/jobpage"
	"github.com/spigell/lazyhunt/internal/logger"
	"github.com/spigell/lazyhunt/internal/merge"
	"github.com/spigell/lazyhunt/internal/pipeline"
	"github.com/spigell/lazyhunt/internal/server"
	"github.com/spigell/lazyhunt/internal/vocabulary"
)

const (
	app       = "lazyhunt"
	envPrefix = "LAZYHUNT"
)

type Config struct {
	Fetch  jobpage.Config `mapstructure:"fetch"`
	Skills SkillsConfig   `mapstructure:"skills"`
	Server server.Config  `mapstructure:"server"`
}

type SkillsConfig struct {
	// Vocabulary replaces the built-in terms when set.
	Vocabulary []string `mapstructure:"vocabulary"`
	// Extra terms are added to whichever vocabulary is active.
	Extra             []string `mapstructure:"extra"`
	MaxExistingLength int      `mapstructure:"max-existing-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "lazyhunt builds resumes and fills their skills section from job postings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is lazyhunt.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	fetch := jobpage.DefaultConfig()
	v.SetDefault("fetch.timeout", fetch.Timeout)
	v.SetDefault("fetch.user-agent", fetch.UserAgent)
	v.SetDefault("fetch.max-text-length", fetch.MaxTextLength)
	v.SetDefault("fetch.description-classes", fetch.DescriptionClasses)

	v.SetDefault("skills.max-existing-length", merge.DefaultMaxExistingLength)

	srv := server.DefaultConfig()
	v.SetDefault("server.address", srv.Address)
	v.SetDefault("server.max-body-bytes", srv.MaxBodyBytes)
	v.SetDefault("server.shutdown-timeout", srv.ShutdownTimeout)
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig reads an explicit config file, or lazyhunt.yaml from the working
// directory when it exists. Environment variables override both.
func readConfig(v *viper.Viper, file string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &config, nil
}

func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

// setup builds the logger and config shared by every command.
func setup() (*zap.Logger, *Config) {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting", zap.String("version", version), zap.Any("config", config))

	return logger, config
}

// newVocabulary resolves the configured vocabulary.
func newVocabulary(cfg SkillsConfig) *vocabulary.Vocabulary {
	vocab := vocabulary.Default()
	if len(cfg.Vocabulary) > 0 {
		vocab = vocabulary.New(cfg.Vocabulary...)
	}
	return vocab.With(cfg.Extra...)
}

func newOrchestrator(logger *zap.Logger, config *Config) *pipeline.Orchestrator {
	orchestrator, err := pipeline.New(pipeline.Deps{
		Fetcher:   jobpage.New(logger, config.Fetch),
		Extractor: extract.New(newVocabulary(config.Skills), nil, logger),
		Merger:    merge.New(logger, merge.Options{MaxExistingLength: config.Skills.MaxExistingLength}),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("creating the pipeline", zap.Error(err))
	}
	return orchestrator
}
