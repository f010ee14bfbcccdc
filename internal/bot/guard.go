package bot

import (
	"context"

	"github.com/danielolaszy/issuebot/internal/logging"
	"github.com/danielolaszy/issuebot/internal/rules"
)

// Guard decides whether a proposed label is attached to an item. It works only
// on the label set it was seeded with plus the labels it added itself, so a
// decision never costs a network round trip.
type Guard struct {
	tracker Tracker
	catalog *rules.Catalog
	number  int
	labels  map[string]bool
	added   []string
}

// NewGuard returns a guard for item number whose current labels are labels.
func NewGuard(tracker Tracker, catalog *rules.Catalog, number int, labels []string) *Guard {
	set := make(map[string]bool, len(labels))
	for _, label := range labels {
		set[label] = true
	}
	return &Guard{
		tracker: tracker,
		catalog: catalog,
		number:  number,
		labels:  set,
	}
}

// Has reports whether the item carries label.
func (g *Guard) Has(label string) bool {
	return g.labels[label]
}

// Allow reports whether label may be added: it must not be present yet and no
// illogical pair may forbid it.
func (g *Guard) Allow(label string) bool {
	if g.Has(label) {
		logging.Debug("already has label", "label", label)
		return false
	}

	if pair, ok := g.catalog.Conflict(label, g.Has); ok {
		logging.Debug("illogical label pair, skipping",
			"label", label,
			"conflicts_with", pair.Right)
		return false
	}

	return true
}

// Apply adds label when Allow permits it. It reports whether the label was added.
func (g *Guard) Apply(ctx context.Context, label string) (bool, error) {
	if !g.Allow(label) {
		logging.Debug("should not add label", "label", label)
		return false, nil
	}

	logging.Info("add label", "label", label, "issue_number", g.number)
	if err := g.tracker.AddLabel(ctx, g.number, label); err != nil {
		return false, err
	}

	g.labels[label] = true
	g.added = append(g.added, label)
	return true, nil
}

// Added returns the labels added through this guard, in order.
func (g *Guard) Added() []string {
	return g.added
}

// HasAny reports whether the item carries at least one of labels.
func (g *Guard) HasAny(labels []string) bool {
	for _, label := range labels {
		if g.Has(label) {
			return true
		}
	}
	return false
}
