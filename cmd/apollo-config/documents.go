package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patrys/apollo-tooling/config"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Short:   "resolve document sets and list their operation files",
	Example: "apollo-config documents -d ./my-project",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		resolver := config.NewResolver(cfg)
		sets, err := resolver.ResolveDocumentSets(commandContext(), false, flagTag)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, set := range sets {
			name := set.Set.SchemaName
			if name == "" {
				name = "(no schema)"
			}
			fmt.Fprintf(out, "documents[%d] schema=%s\n", i, name)
			for _, path := range set.DocumentPaths {
				fmt.Fprintf(out, "  %s\n", path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}
