// Package cmd provides the command-line interface for issuebot.
package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/danielolaszy/issuebot/internal/bot"
	"github.com/danielolaszy/issuebot/internal/config"
	"github.com/danielolaszy/issuebot/internal/github"
	"github.com/danielolaszy/issuebot/internal/logging"
	"github.com/danielolaszy/issuebot/internal/rules"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "issuebot <number>",
	Short: "Label and triage a new GitHub issue or pull request",
	Long: `issuebot is run by a GitHub Actions workflow every time an issue, pull request
or comment is created. Given the item number it:

- adds labels inferred from the title and from the "* OS:", "* Bug fix:" and
  "* Type:" lines of the template
- replies to and closes issues about a missing Python.h header

Items that already have comments are left alone.

Example:
  GITHUB_REPOSITORY=owner/repo GITHUB_TOKEN=... issuebot 1234`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseItemNumber(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}

		catalog, err := loadCatalog(cfg.Rules)
		if err != nil {
			return err
		}

		githubClient, err := github.NewClient(cmd.Context(), cfg.GitHub)
		if err != nil {
			return fmt.Errorf("failed to initialize github client: %w", err)
		}

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		var tracker bot.Tracker = githubClient
		if dryRun {
			logging.Info("dry run enabled, no changes will be made")
			tracker = bot.NewDryRun(githubClient)
		}

		result, err := bot.NewEngine(tracker, catalog).Handle(cmd.Context(), number)
		if err != nil {
			return err
		}

		logging.Info("done",
			"item", result.Item.String(),
			"event", result.Event,
			"labels_added", result.Added,
			"closed", result.Closed)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringP("repository", "r", "", "GitHub repository (e.g., 'owner/repo'), overrides GITHUB_REPOSITORY")
	rootCmd.PersistentFlags().String("rules", "", "Label rules file, overrides the built-in catalog and ISSUEBOT_RULES")

	rootCmd.Flags().String("scripts-dir", "", "Directory whose script names are keywords of the scripts label (default \"scripts\")")
	rootCmd.Flags().Bool("dry-run", false, "Log the changes instead of making them")

	rootCmd.AddCommand(labelsCmd)
}

// parseItemNumber validates the issue or pull request number argument.
func parseItemNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("invalid item number: %q", arg)
	}
	return number, nil
}

// loadCatalog reads the configured rules file, or the built-in catalog, and
// folds in the scripts directory.
func loadCatalog(cfg config.RulesConfig) (*rules.Catalog, error) {
	var (
		catalog *rules.Catalog
		err     error
	)
	if cfg.File != "" {
		catalog, err = rules.LoadFile(cfg.File)
	} else {
		catalog, err = rules.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load label rules: %w", err)
	}

	if err := catalog.AddScripts(cfg.ScriptsDir); err != nil {
		return nil, err
	}
	return catalog, nil
}
