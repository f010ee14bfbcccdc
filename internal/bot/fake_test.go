package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielolaszy/issuebot/pkg/models"
)

// fakeTracker is an in-memory Tracker that records every call.
type fakeTracker struct {
	items    map[int]*models.Item
	labels   map[int][]string
	calls    []string
	comments []string

	getErr     error
	addErr     error
	commentErr error
	stateErr   error
}

func newFakeTracker(items ...*models.Item) *fakeTracker {
	f := &fakeTracker{
		items:  make(map[int]*models.Item),
		labels: make(map[int][]string),
	}
	for _, item := range items {
		f.items[item.Number] = item
		f.labels[item.Number] = append([]string(nil), item.Labels...)
	}
	return f
}

func (f *fakeTracker) GetItem(_ context.Context, number int) (*models.Item, error) {
	f.calls = append(f.calls, fmt.Sprintf("get %d", number))
	if f.getErr != nil {
		return nil, f.getErr
	}
	item, ok := f.items[number]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *item
	return &copied, nil
}

func (f *fakeTracker) ListLabels(_ context.Context, number int) ([]string, error) {
	f.calls = append(f.calls, fmt.Sprintf("labels %d", number))
	return append([]string(nil), f.labels[number]...), nil
}

func (f *fakeTracker) AddLabel(_ context.Context, number int, label string) error {
	f.calls = append(f.calls, "add "+label)
	if f.addErr != nil {
		return f.addErr
	}
	f.labels[number] = append(f.labels[number], label)
	return nil
}

func (f *fakeTracker) CreateComment(_ context.Context, number int, body string) error {
	f.calls = append(f.calls, "comment")
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeTracker) SetState(_ context.Context, number int, state models.State) error {
	f.calls = append(f.calls, "state "+string(state))
	if f.stateErr != nil {
		return f.stateErr
	}
	f.items[number].State = state
	return nil
}

// writes returns the recorded calls that would change the item.
func (f *fakeTracker) writes() []string {
	var out []string
	for _, call := range f.calls {
		if strings.HasPrefix(call, "add ") || call == "comment" || strings.HasPrefix(call, "state ") {
			out = append(out, call)
		}
	}
	return out
}
