package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "HEADERGUARD"

var cfgFile string
var verbose bool

// AppContext carries the runtime dependencies shared by commands.
type AppContext struct {
	Logger     *zap.SugaredLogger
	ResultsDir string
	Config     *CLIConfig
}

type appContextKey struct{}

var globalAppContext *AppContext

var rootCmd = &cobra.Command{
	Use:           "headerguard",
	Short:         "HTTP security header analyzer client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCtx := getAppContext(cmd); appCtx != nil && appCtx.Logger != nil {
			_ = appCtx.Logger.Sync()
		}
	},
}

// rootPersistentPreRunE is assigned in init to avoid an initialization cycle
// (rootCmd -> applyConfigDefaults -> rootCmd).
func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}
	applyConfigDefaults(cmd)

	resultsDir := viper.GetString("results_dir")
	if resultsDir == "" {
		resultsDir = "./results"
	}
	// Make final resultsDir absolute (for clarity in logs)
	if abs, err := filepath.Abs(resultsDir); err == nil {
		resultsDir = abs
	}

	l, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger := l.Sugar()

	appCtx := &AppContext{
		Logger:     logger,
		ResultsDir: resultsDir,
		Config:     cliConfig,
	}
	storeAppContext(cmd, appCtx)

	logger.Debugf("api_url=%s results_dir=%s timeout=%ds", cliConfig.APIURL, resultsDir, cliConfig.Analyze.TimeoutSecs)
	return nil
}

// initConfig wires the config file, .env and HEADERGUARD_* environment into viper.
func initConfig() error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".headerguard")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if ctx := cmd.Context(); ctx != nil {
		if appCtx, ok := ctx.Value(appContextKey{}).(*AppContext); ok {
			return appCtx
		}
	}
	return globalAppContext
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE

	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.headerguard.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.PersistentFlags().StringVar(&cliConfig.APIURL, "api-url", cliConfig.APIURL, "analyzer base URL (or set HEADERGUARD_API_URL)")
	rootCmd.PersistentFlags().IntVar(&cliConfig.Analyze.TimeoutSecs, "timeout", cliConfig.Analyze.TimeoutSecs, "timeout in seconds for each analysis request")
	rootCmd.PersistentFlags().BoolVar(&cliConfig.Analyze.History, "history", cliConfig.Analyze.History, "record completed analyses in the results directory")

	// add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
