package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-sync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(redacted(cfg))
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		fmt.Print(string(out))
		return nil
	},
}

// redacted returns a copy of the config with credentials masked.
func redacted(c *config.Config) config.Config {
	out := *c
	out.Debounce.Key = mask(out.Debounce.Key)
	out.Instantly.Key = mask(out.Instantly.Key)
	out.Salesforce.ClientID = mask(out.Salesforce.ClientID)
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
