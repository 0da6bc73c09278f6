package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the itinerary configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file and data locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, _, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(paths)
		}

		PrintSection("Paths")
		PrintLabelValue("Root", paths.Root)
		PrintLabelValue("Config", paths.Config)
		PrintLabelValue("Data", paths.Data)
		PrintLabelValue("SQLite", paths.DB)
		PrintLabelValue("Backups", paths.Backups)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults and environment overrides.
Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		shown := *cfg
		if shown.Auth.JWTSecret != "" {
			shown.Auth.JWTSecret = "********"
		}
		if shown.Storage.Redis.Password != "" {
			shown.Storage.Redis.Password = "********"
		}

		if jsonOutput {
			return outputJSON(shown)
		}

		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		PrintSection("Configuration")
		PrintInfo(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}
