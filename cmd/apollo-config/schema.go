package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/patrys/apollo-tooling/config"
)

var schemaCmd = &cobra.Command{
	Use:     "schema [name]",
	Short:   "resolve a schema and print its SDL",
	Example: "apollo-config schema default > schema.graphql",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		name := "default"
		if len(args) == 1 {
			name = args[0]
		}

		resolver := config.NewResolver(cfg)
		schema, err := resolver.ResolveSchema(commandContext(), name, flagTag)
		if err != nil {
			return err
		}
		if schema == nil {
			return fmt.Errorf("schema %q is unavailable", name)
		}

		formatter.NewFormatter(cmd.OutOrStdout()).FormatSchema(schema)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
