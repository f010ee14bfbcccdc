package cmd

import (
	"context"
	"fmt"

	"github.com/danielolaszy/issuebot/internal/config"
	"github.com/danielolaszy/issuebot/internal/github"
	"github.com/danielolaszy/issuebot/internal/logging"
	"github.com/danielolaszy/issuebot/internal/rules"
	"github.com/spf13/cobra"
)

// defaultLabelColor is GitHub's grey, used for catalog labels without a color.
const defaultLabelColor = "ededed"

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Create the catalog labels in a GitHub repository",
	Long: `Create every label of the rules catalog that does not exist yet in the
repository, using the catalog color and description.

Existing labels are left untouched, so the command can be run repeatedly.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}

		catalog, err := loadCatalog(config.RulesConfig{File: cfg.Rules.File})
		if err != nil {
			return err
		}

		githubClient, err := github.NewClient(cmd.Context(), cfg.GitHub)
		if err != nil {
			return fmt.Errorf("failed to initialize github client: %w", err)
		}

		created, err := bootstrapLabels(cmd.Context(), githubClient, catalog)
		if err != nil {
			return err
		}

		logging.Info("repository labels initialized",
			"repository", githubClient.Repository(),
			"created", created)
		return nil
	},
}

// labelAdmin manages the label definitions of a repository.
type labelAdmin interface {
	ListRepoLabels(ctx context.Context) ([]string, error)
	CreateLabel(ctx context.Context, name, color, description string) error
}

// bootstrapLabels creates the catalog labels missing from the repository and
// returns their names.
func bootstrapLabels(ctx context.Context, admin labelAdmin, catalog *rules.Catalog) ([]string, error) {
	existing, err := admin.ListRepoLabels(ctx)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	var created []string
	for _, label := range catalog.Labels {
		if present[label.Name] {
			logging.Debug("label already exists", "label", label.Name)
			continue
		}

		color := label.Color
		if color == "" {
			color = defaultLabelColor
		}

		logging.Info("creating label", "label", label.Name, "color", color)
		if err := admin.CreateLabel(ctx, label.Name, color, label.Description); err != nil {
			return created, err
		}
		created = append(created, label.Name)
	}

	return created, nil
}
