// Package models defines data structures shared across the application.
package models

import "strconv"

// Kind distinguishes issues from pull requests.
type Kind string

const (
	// KindIssue is a plain GitHub issue.
	KindIssue Kind = "issue"
	// KindPullRequest is a pull request. GitHub serves both through the issues API.
	KindPullRequest Kind = "pr"
)

// State is the open/closed state of an item.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Item represents a GitHub issue or pull request with the fields the bot reads.
type Item struct {
	// Number is the issue or PR number in GitHub (e.g., 42)
	Number int

	// Kind tells whether the item is an issue or a pull request
	Kind Kind

	// Title is the item's title
	Title string

	// Body is the full body text, empty when the author left it blank
	Body string

	// Comments is the number of comments posted on the item so far
	Comments int

	// State is the current state of the item
	State State

	// Labels is a slice of label names attached to the item
	Labels []string
}

// IsPullRequest reports whether the item is a pull request.
func (i *Item) IsPullRequest() bool {
	return i.Kind == KindPullRequest
}

// IsNew reports whether nobody has commented on the item yet.
func (i *Item) IsNew() bool {
	return i.Comments == 0
}

// String returns a short human readable identifier such as "issue #12".
func (i *Item) String() string {
	if i.IsPullRequest() {
		return "PR #" + strconv.Itoa(i.Number)
	}
	return "issue #" + strconv.Itoa(i.Number)
}
