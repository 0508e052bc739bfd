package cmd

import (
	"time"

	consts "github.com/khanhnv2901/headerguard/internal/shared/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultTimeoutSeconds = int(consts.DefaultRequestTimeout / time.Second)
	defaultRateLimit      = 1
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	APIURL  string
	Analyze AnalyzeRuntimeConfig
}

// AnalyzeRuntimeConfig consolidates flag-driven settings for analysis commands.
type AnalyzeRuntimeConfig struct {
	TimeoutSecs int
	BypassCache bool
	RateLimit   int // submissions per second in batch mode; <= 0 disables pacing
	History     bool
	JSONOutput  bool
	NoProgress  bool
}

type defaultOverrides struct {
	APIURL      string
	TimeoutSecs *int
	BypassCache *bool
	RateLimit   *int
	History     *bool
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		APIURL: consts.DefaultAPIURL,
		Analyze: AnalyzeRuntimeConfig{
			TimeoutSecs: defaultTimeoutSeconds,
			RateLimit:   defaultRateLimit,
			History:     true,
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("api_url") {
		overrides.APIURL = viper.GetString("api_url")
	}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("defaults.bypass_cache") {
		val := viper.GetBool("defaults.bypass_cache")
		overrides.BypassCache = &val
	}

	if viper.IsSet("defaults.rate_limit") {
		val := viper.GetInt("defaults.rate_limit")
		overrides.RateLimit = &val
	}

	if viper.IsSet("defaults.history") {
		val := viper.GetBool("defaults.history")
		overrides.History = &val
	}

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()
	persistent := rootCmd.PersistentFlags()

	if overrides.APIURL != "" {
		setStringFlagIfUnset(persistent, "api-url", overrides.APIURL)
	}

	if overrides.TimeoutSecs != nil {
		applyIntDefault(persistent, "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Analyze.TimeoutSecs = v
		})
	}

	if overrides.History != nil {
		applyBoolDefault(persistent, "history", *overrides.History, func(v bool) {
			cliConfig.Analyze.History = v
		})
	}

	if overrides.BypassCache != nil {
		applyBoolDefault(analyzeCmd.Flags(), "bypass-cache", *overrides.BypassCache, func(v bool) {
			cliConfig.Analyze.BypassCache = v
		})
	}

	if overrides.RateLimit != nil {
		applyIntDefault(analyzeCmd.Flags(), "rate-limit", *overrides.RateLimit, func(v int) {
			cliConfig.Analyze.RateLimit = v
		})
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

// setStringFlagIfUnset routes the value through the flag so its bound variable updates too.
func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
