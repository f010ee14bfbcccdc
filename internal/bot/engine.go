package bot

import (
	"context"
	"fmt"

	"github.com/danielolaszy/issuebot/internal/logging"
	"github.com/danielolaszy/issuebot/internal/rules"
	"github.com/danielolaszy/issuebot/pkg/models"
)

// Event is what happened to the item, derived from its kind and comment count.
type Event int

const (
	NewIssue Event = iota
	NewPR
	CommentOnIssue
	CommentOnPR
)

func (e Event) String() string {
	switch e {
	case NewIssue:
		return "new issue"
	case NewPR:
		return "new PR"
	case CommentOnIssue:
		return "comment on issue"
	case CommentOnPR:
		return "comment on PR"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Classify derives the event from the item. An item without comments is new.
func Classify(item *models.Item) Event {
	switch {
	case item.IsNew() && item.IsPullRequest():
		return NewPR
	case item.IsNew():
		return NewIssue
	case item.IsPullRequest():
		return CommentOnPR
	default:
		return CommentOnIssue
	}
}

// Result summarises what a run did to the item.
type Result struct {
	Item   *models.Item
	Event  Event
	Added  []string
	Closed bool
}

// Engine runs the labeling and reply rules for one item.
type Engine struct {
	tracker Tracker
	catalog *rules.Catalog
}

// NewEngine returns an engine applying catalog through tracker.
func NewEngine(tracker Tracker, catalog *rules.Catalog) *Engine {
	return &Engine{tracker: tracker, catalog: catalog}
}

// Handle processes item number once. Any tracker error aborts the run; labels
// added before the failure stay on the item.
func (e *Engine) Handle(ctx context.Context, number int) (*Result, error) {
	item, err := e.tracker.GetItem(ctx, number)
	if err != nil {
		return nil, err
	}

	labels, err := e.tracker.ListLabels(ctx, number)
	if err != nil {
		return nil, err
	}
	item.Labels = labels

	event := Classify(item)
	logging.Info("running issue bot", "item", item.String(), "event", event, "title", item.Title)

	guard := NewGuard(e.tracker, e.catalog, item.Number, item.Labels)
	result := &Result{Item: item, Event: event}

	switch event {
	case NewIssue, NewPR:
		logging.Info("new item", "item", item.String(), "body", item.Body)

		if err := e.labelsFromText(ctx, guard, item.Title); err != nil {
			return nil, err
		}
		if err := e.labelsFromBody(ctx, guard, item); err != nil {
			return nil, err
		}

		if !guard.HasAny(e.catalog.Group("os")) {
			logging.Info("no os label could be inferred", "item", item.String())
		}

		if event == NewIssue {
			closed, err := e.onNewIssue(ctx, item)
			if err != nil {
				return nil, err
			}
			result.Closed = closed
		} else {
			e.onNewPR(item)
		}
	default:
		e.onNewComment(item)
	}

	result.Added = guard.Added()
	return result, nil
}

// labelsFromText applies every label whose keywords occur in text.
func (e *Engine) labelsFromText(ctx context.Context, guard *Guard, text string) error {
	for _, match := range e.catalog.Guess(text) {
		logging.Debug("keyword matched", "label", match.Label, "keyword", match.Keyword)
		if _, err := guard.Apply(ctx, match.Label); err != nil {
			return err
		}
	}
	return nil
}

// labelsFromBody applies the labels implied by the template lines of a new body.
func (e *Engine) labelsFromBody(ctx context.Context, guard *Guard, item *models.Item) error {
	logging.Debug("start searching for template lines in new issue/PR body")
	tmpl := ParseTemplate(item.Body)

	if tmpl.OS != "" {
		logging.Debug("found template line", "field", "OS", "line", tmpl.OS)
		if err := e.labelsFromText(ctx, guard, tmpl.OS); err != nil {
			return err
		}
	} else {
		logging.Debug("template line not found", "field", "OS")
	}

	if item.IsPullRequest() && tmpl.BugFix != "" && !guard.Has("bug") && !guard.Has("enhancement") {
		logging.Debug("found template line", "field", "Bug fix", "line", tmpl.BugFix)
		if _, err := guard.Apply(ctx, BugFixLabel(tmpl.BugFix)); err != nil {
			return err
		}
	} else {
		logging.Debug("template line not used", "field", "Bug fix")
	}

	if tmpl.Type != "" {
		logging.Debug("found template line", "field", "Type", "line", tmpl.Type)
		for _, label := range TypeLabels(tmpl.Type) {
			if _, err := guard.Apply(ctx, label); err != nil {
				return err
			}
		}
	} else {
		logging.Debug("template line not found", "field", "Type")
	}

	return nil
}

// onNewIssue answers and closes issues caused by missing Python headers.
// The comment is posted before the issue is closed; there is no rollback.
func (e *Engine) onNewIssue(ctx context.Context, item *models.Item) (bool, error) {
	logging.Debug("searching for missing Python.h")
	if !MissingPythonHeaders(item) {
		return false, nil
	}

	logging.Info("missing Python.h detected, replying and closing", "item", item.String())
	if err := e.tracker.CreateComment(ctx, item.Number, e.catalog.Reply(rules.ReplyMissingPythonHeaders)); err != nil {
		return false, err
	}
	if err := e.tracker.SetState(ctx, item.Number, models.StateClosed); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) onNewPR(item *models.Item) {
	logging.Debug("no PR specific rules", "item", item.String())
}

func (e *Engine) onNewComment(item *models.Item) {
	logging.Debug("new comment, nothing to do", "item", item.String(), "comments", item.Comments)
}
