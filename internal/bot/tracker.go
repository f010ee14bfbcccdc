// Package bot classifies a new issue or pull request, labels it and answers
// known problems automatically.
package bot

import (
	"context"

	"github.com/danielolaszy/issuebot/internal/logging"
	"github.com/danielolaszy/issuebot/pkg/models"
)

// Tracker is what the bot needs from the hosting platform.
// internal/github.Client implements it.
type Tracker interface {
	GetItem(ctx context.Context, number int) (*models.Item, error)
	ListLabels(ctx context.Context, number int) ([]string, error)
	AddLabel(ctx context.Context, number int, label string) error
	CreateComment(ctx context.Context, number int, body string) error
	SetState(ctx context.Context, number int, state models.State) error
}

// DryRun reads through the wrapped Tracker and only logs writes.
type DryRun struct {
	Tracker
}

// NewDryRun wraps t so that no label, comment or state change reaches it.
func NewDryRun(t Tracker) *DryRun {
	return &DryRun{Tracker: t}
}

// AddLabel logs the label instead of adding it.
func (d *DryRun) AddLabel(_ context.Context, number int, label string) error {
	logging.Info("dry run: would add label", "issue_number", number, "label", label)
	return nil
}

// CreateComment logs the comment instead of posting it.
func (d *DryRun) CreateComment(_ context.Context, number int, body string) error {
	logging.Info("dry run: would comment", "issue_number", number, "body", body)
	return nil
}

// SetState logs the state change instead of applying it.
func (d *DryRun) SetState(_ context.Context, number int, state models.State) error {
	logging.Info("dry run: would change state", "issue_number", number, "state", state)
	return nil
}
