// apollo-config loads an Apollo project configuration and resolves it:
// canonical config, schema SDL, and concrete operation-document lists.
package main

import (
	"context"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"github.com/patrys/apollo-tooling/config"
)

var (
	flagConfigDir       string
	flagConfigFile      string
	flagTag             string
	flagDefaultEndpoint bool
	flagDefaultSchema   bool
	flagEngineKey       string
	flagVerbosity       int
)

var rootCmd = &cobra.Command{
	Use:           "apollo-config",
	Short:         "resolve an Apollo project configuration",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfigDir, "dir", "d", ".", "directory to locate the config in")
	pf.StringVarP(&flagConfigFile, "config", "c", "", "explicit config file (overrides --dir)")
	pf.StringVarP(&flagTag, "tag", "t", "", "schema tag for multi-environment lookups")
	pf.BoolVar(&flagDefaultEndpoint, "default-endpoint", true, "assume a local endpoint when none is configured")
	pf.BoolVar(&flagDefaultSchema, "default-schema", true, "synthesize a default schema when none is configured")
	pf.StringVar(&flagEngineKey, "engine-key", "", "engine API key (defaults to $ENGINE_API_KEY)")
	pf.IntVarP(&flagVerbosity, "verbosity", "v", 0, "log verbosity")
}

func loadConfig() (*config.Config, error) {
	opts := config.Options{
		DefaultEndpoint: flagDefaultEndpoint,
		DefaultSchema:   flagDefaultSchema,
		EngineKey:       flagEngineKey,
	}
	if flagConfigFile != "" {
		if opts.EngineKey == "" {
			opts.EngineKey = os.Getenv(config.EngineAPIKeyEnv)
		}
		return config.LoadFile(flagConfigFile, opts)
	}
	return config.Load(flagConfigDir, opts)
}

func commandContext() context.Context {
	stdr.SetVerbosity(flagVerbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))
	return logr.NewContext(context.Background(), logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
