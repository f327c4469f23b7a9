// Package github implements the IssueTracker port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/cloudpanel/internal/metrics"
)

// Compile-time interface satisfaction check.
var _ driven.IssueTracker = (*Client)(nil)

// Client implements the driven.IssueTracker port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. Prometheus round-tripper instrumentation
//  4. go-github (GitHub REST API client with PAT auth)
func NewClient(token string, reg *metrics.Registry) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = reg.InstrumentTransport(metrics.UpstreamGitHub, nil)
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchIssues retrieves issues for the given repository filtered by state.
// Valid state values are "open", "closed", or "all". Pull requests, which the
// Issues API also returns, are skipped. Pagination is handled automatically.
func (c *Client) FetchIssues(ctx context.Context, repoFullName string, state string) ([]model.Issue, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.IssueListByRepoOptions{
		State:     state,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var all []model.Issue

	for {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issues for %s (page %d): %w", repoFullName, opts.ListOptions.Page, err)
		}

		logRateLimit(resp, repoFullName+"/issues", opts.ListOptions.Page, len(issues))

		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			all = append(all, mapIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	if all == nil {
		all = []model.Issue{}
	}

	return all, nil
}

// FetchIssue returns a single issue by number.
func (c *Client) FetchIssue(ctx context.Context, repoFullName string, number int) (*model.Issue, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	issue, resp, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/issue", 0, 1)

	mapped := mapIssue(issue)
	return &mapped, nil
}

// SetIssueState closes or reopens an issue.
func (c *Client) SetIssueState(ctx context.Context, repoFullName string, number int, state model.IssueState) error {
	if state != model.IssueStateOpen && state != model.IssueStateClosed {
		return fmt.Errorf("invalid issue state %q: expected open or closed", state)
	}

	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, resp, err := c.gh.Issues.Edit(ctx, owner, repo, number, &gh.IssueRequest{
		State: gh.Ptr(string(state)),
	})
	if err != nil {
		return fmt.Errorf("setting state of %s#%d to %s: %w", repoFullName, number, state, err)
	}

	logRateLimit(resp, repoFullName+"/edit-issue", 0, 1)
	return nil
}

// EditIssue updates the title, body, labels and state of an issue in one
// request. The label set is replaced, not merged.
func (c *Client) EditIssue(ctx context.Context, repoFullName string, number int, edit model.IssueEdit) (*model.Issue, error) {
	if err := edit.Validate(); err != nil {
		return nil, err
	}

	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	labels := edit.Labels
	if labels == nil {
		labels = []string{}
	}

	issue, resp, err := c.gh.Issues.Edit(ctx, owner, repo, number, &gh.IssueRequest{
		Title:  gh.Ptr(edit.Title),
		Body:   gh.Ptr(edit.Body),
		Labels: &labels,
		State:  gh.Ptr(string(edit.State)),
	})
	if err != nil {
		return nil, fmt.Errorf("editing %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/edit-issue", 0, 1)

	mapped := mapIssue(issue)
	return &mapped, nil
}

// mapIssue converts a go-github Issue to a domain model Issue.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapIssue(issue *gh.Issue) model.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return model.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     model.IssueState(issue.GetState()),
		Author:    issue.GetUser().GetLogin(),
		Labels:    labels,
		URL:       issue.GetHTMLURL(),
		Comments:  issue.GetComments(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
