// Package googletasks implements service.Publisher using the Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/task"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Sentinel errors returned by the client.
var (
	ErrListNotFound  = errors.New("list not found")
	ErrAmbiguousList = errors.New("ambiguous list name")
	ErrAuth          = errors.New("token expired or revoked (run: todo login)")
	ErrTimeout       = errors.New("request timed out")
)

// Client pushes tasks to Google Tasks.
type Client struct {
	svc    *tasks.Service
	logger *log.Logger
}

// New creates a Google Tasks client from the credentials in cfg.Dir.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes expired access tokens.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return newClient(ctx, logger, option.WithHTTPClient(httpClient))
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint
// (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	return newClient(ctx, nil, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
}

func newClient(ctx context.Context, logger *log.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Push implements service.Publisher. The named list is created when it
// does not exist; an empty name targets the default list.
func (c *Client) Push(ctx context.Context, listName string, items []task.Task) (int, error) {
	listID, err := c.resolveOrCreateList(ctx, listName)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, t := range items {
		if err := c.insertTask(ctx, listID, t); err != nil {
			return created, err
		}
		created++
	}
	c.logger.Debug("pushed tasks", "list", listID, "count", created)
	return created, nil
}

func (c *Client) insertTask(ctx context.Context, listID string, t task.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, remoteTask(t)).Context(ctx).Do()
	return wrapError(err)
}

// remoteTask maps a local task onto the API model. Due dates are free text,
// so they travel in the notes rather than the RFC 3339 due field.
func remoteTask(t task.Task) *tasks.Task {
	notes := "Priority: " + string(t.Priority)
	if strings.TrimSpace(t.DueDate) != "" {
		notes += "\nDue: " + t.DueDate
	}
	status := statusNeedsAction
	if t.Completed {
		status = statusCompleted
	}
	return &tasks.Task{
		Title:  t.Content,
		Notes:  notes,
		Status: status,
	}
}

func (c *Client) resolveOrCreateList(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultListID, nil
	}

	id, err := c.resolveList(ctx, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrListNotFound) {
		return "", err
	}

	c.logger.Debug("creating list", "title", name)
	return c.createList(ctx, name)
}

// resolveList finds a list by title (case-insensitive, trimmed).
func (c *Client) resolveList(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	nameLower := strings.ToLower(name)
	var matches []string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
				matches = append(matches, list.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrListNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousList, name)
	}
}

func (c *Client) createList(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: name}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return list.Id, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return ErrTimeout
	}

	errStr := err.Error()
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return ErrAuth
	}

	return err
}
