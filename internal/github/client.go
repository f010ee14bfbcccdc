// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/danielolaszy/issuebot/internal/config"
	"github.com/danielolaszy/issuebot/internal/logging"
	"github.com/danielolaszy/issuebot/pkg/models"
	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"
)

// Client encapsulates the GitHub API client for a single repository.
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// APIURL returns the REST endpoint for a GitHub domain. github.com and an empty
// domain use the public API; anything else is treated as GitHub Enterprise.
func APIURL(domain string) string {
	if domain == "" || domain == "github.com" {
		return "https://api.github.com/"
	}
	return fmt.Sprintf("https://%s/api/v3/", domain)
}

// NewClient creates a GitHub API client authenticated with the configured token.
// Unlike a personal token, the GITHUB_TOKEN of a workflow cannot read /user, so
// the token is not probed here; the first real request reports auth failures.
func NewClient(ctx context.Context, cfg config.GitHubConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	apiURL := APIURL(cfg.Domain)
	logging.Info("github configuration",
		"domain", cfg.Domain,
		"api_url", apiURL,
		"repository", cfg.Repository,
		"token", logging.MaskSensitive(cfg.Token))

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	return newClient(oauth2.NewClient(ctx, ts), apiURL, cfg.Repository)
}

func newClient(httpClient *http.Client, apiURL, repository string) (*Client, error) {
	owner, repo, err := config.SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(httpClient)
	if apiURL != client.BaseURL.String() {
		parsedURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = parsedURL
		client.UploadURL = parsedURL
	}

	return &Client{client: client, owner: owner, repo: repo}, nil
}

// Repository returns the "owner/repo" the client works on.
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// GetItem fetches an issue or pull request by number. Pull requests are
// recognised by the pull_request links GitHub attaches to them.
func (c *Client) GetItem(ctx context.Context, number int) (*models.Item, error) {
	issue, _, err := c.client.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		logging.Error("failed to get github issue",
			"repository", c.Repository(),
			"issue_number", number,
			"error", err)
		return nil, fmt.Errorf("failed to get GitHub issue %s#%d: %w", c.repo, number, err)
	}

	return toItem(issue), nil
}

func toItem(issue *github.Issue) *models.Item {
	kind := models.KindIssue
	if issue.IsPullRequest() {
		kind = models.KindPullRequest
	}

	labelNames := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labelNames = append(labelNames, label.GetName())
	}

	return &models.Item{
		Number:   issue.GetNumber(),
		Kind:     kind,
		Title:    issue.GetTitle(),
		Body:     issue.GetBody(),
		Comments: issue.GetComments(),
		State:    models.State(issue.GetState()),
		Labels:   labelNames,
	}
}

// ListLabels retrieves all labels currently attached to an issue or PR.
func (c *Client) ListLabels(ctx context.Context, number int) ([]string, error) {
	logging.Debug("retrieving labels", "repository", c.Repository(), "issue_number", number)

	opts := &github.ListOptions{PerPage: 100}
	var labelNames []string
	for {
		labels, resp, err := c.client.Issues.ListLabelsByIssue(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			logging.Error("error retrieving labels", "repository", c.Repository(), "issue_number", number, "error", err)
			return nil, fmt.Errorf("failed to retrieve labels for issue %s#%d: %w", c.repo, number, err)
		}

		for _, label := range labels {
			labelNames = append(labelNames, label.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.Debug("successfully retrieved labels", "repository", c.Repository(), "issue_number", number, "number_of_labels", len(labelNames))
	return labelNames, nil
}

// AddLabel attaches a label to an issue or PR. GitHub creates labels that do not
// exist yet in the repository.
func (c *Client) AddLabel(ctx context.Context, number int, label string) error {
	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, []string{label})
	if err != nil {
		logging.Error("error adding label to issue", "repository", c.Repository(), "issue_number", number, "label", label, "error", err)
		return fmt.Errorf("failed to add label %q to issue %s#%d: %w", label, c.repo, number, err)
	}
	return nil
}

// CreateComment posts a comment on an issue or PR.
func (c *Client) CreateComment(ctx context.Context, number int, body string) error {
	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		logging.Error("error creating comment", "repository", c.Repository(), "issue_number", number, "error", err)
		return fmt.Errorf("failed to comment on issue %s#%d: %w", c.repo, number, err)
	}
	return nil
}

// SetState opens or closes an issue or PR.
func (c *Client) SetState(ctx context.Context, number int, state models.State) error {
	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, number, &github.IssueRequest{
		State: github.String(string(state)),
	})
	if err != nil {
		logging.Error("error changing issue state", "repository", c.Repository(), "issue_number", number, "state", state, "error", err)
		return fmt.Errorf("failed to set state %s on issue %s#%d: %w", state, c.repo, number, err)
	}
	return nil
}

// ListRepoLabels returns the names of every label defined in the repository.
func (c *Client) ListRepoLabels(ctx context.Context) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}
	var names []string
	for {
		labels, resp, err := c.client.Issues.ListLabels(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch labels of %s: %w", c.Repository(), err)
		}

		for _, label := range labels {
			names = append(names, label.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// CreateLabel defines a new label in the repository.
func (c *Client) CreateLabel(ctx context.Context, name, color, description string) error {
	_, _, err := c.client.Issues.CreateLabel(ctx, c.owner, c.repo, &github.Label{
		Name:        github.String(name),
		Color:       github.String(color),
		Description: github.String(description),
	})
	if err != nil {
		return fmt.Errorf("failed to create label %s: %w", name, err)
	}
	return nil
}
