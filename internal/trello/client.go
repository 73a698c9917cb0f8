// Package trello is a rate-limited client for the Trello REST API.
//
// Every request first waits on the shared dual-bucket limiter, then
// issues one HTTP call. Quota rejections (HTTP 429) are retried with a
// fixed one-second delay up to a bounded number of attempts; any other
// non-2xx response surfaces as an *APIError carrying the upstream status
// and body, with no retry.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/boardwatch/internal/ratelimit"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const (
	// defaultBaseURL is Trello's REST endpoint.
	defaultBaseURL = "https://api.trello.com/1"

	// requestTimeout bounds a single HTTP round trip.
	requestTimeout = 30 * time.Second

	// quotaRetryAttempts caps retries after a 429. Ten one-second
	// delays span a full quota window, so a healthy upstream always
	// clears within the cap.
	quotaRetryAttempts = 10
)

// quotaRetryDelay is the fixed pause between 429 retries.
// Package variable so tests can shrink it.
var quotaRetryDelay = time.Second

// ErrRateLimited marks a quota rejection from Trello. It is the only
// error class the client retries.
var ErrRateLimited = errors.New("trello: rate limited")

// APIError is a non-2xx response from Trello other than a quota
// rejection. It is surfaced to the caller verbatim.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trello: API returned %d: %s", e.Status, e.Body)
}

// Client performs Trello REST calls gated by the rate limiter.
type Client struct {
	apiKey  string
	token   string
	baseURL string
	http    *http.Client
	limiter *ratelimit.Limiter
	log     *zap.Logger
}

// NewClient creates a Client. The limiter is shared across all calls so
// concurrent tool invocations respect the same quotas.
func NewClient(apiKey, token string, limiter *ratelimit.Limiter, log *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: limiter,
		log:     log,
	}
}

// do runs one API operation: await the limiter, issue the call, decode
// JSON into out (which may be nil). On a 429 the whole unit is retried
// after a fixed delay, up to quotaRetryAttempts.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			return c.doOnce(ctx, method, path, query, out)
		},
		retry.Context(ctx),
		retry.Attempts(quotaRetryAttempts),
		retry.Delay(quotaRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrRateLimited)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("trello quota rejection, retrying",
				zap.Uint("attempt", n+1),
				zap.String("path", path),
			)
		}),
	)
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)
	query.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling trello: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding trello response: %w", err)
	}
	return nil
}

// Boards returns all boards visible to the credential's member.
func (c *Client) Boards(ctx context.Context) ([]Board, error) {
	var boards []Board
	if err := c.do(ctx, http.MethodGet, "/members/me/boards", nil, &boards); err != nil {
		return nil, fmt.Errorf("fetching boards: %w", err)
	}
	return boards, nil
}

// Board returns one board by id.
func (c *Client) Board(ctx context.Context, boardID string) (*Board, error) {
	var board Board
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID, nil, &board); err != nil {
		return nil, fmt.Errorf("fetching board %s: %w", boardID, err)
	}
	return &board, nil
}

// Lists returns the open lists on a board.
func (c *Client) Lists(ctx context.Context, boardID string) ([]List, error) {
	var lists []List
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/lists", nil, &lists); err != nil {
		return nil, fmt.Errorf("fetching lists for board %s: %w", boardID, err)
	}
	return lists, nil
}

// CreateList adds a list to a board.
func (c *Client) CreateList(ctx context.Context, boardID, name string) (*List, error) {
	q := url.Values{}
	q.Set("idBoard", boardID)
	q.Set("name", name)
	q.Set("pos", "bottom")
	var list List
	if err := c.do(ctx, http.MethodPost, "/lists", q, &list); err != nil {
		return nil, fmt.Errorf("creating list on board %s: %w", boardID, err)
	}
	return &list, nil
}

// CardsInList returns the open cards in a list.
func (c *Client) CardsInList(ctx context.Context, listID string) ([]Card, error) {
	var cards []Card
	if err := c.do(ctx, http.MethodGet, "/lists/"+listID+"/cards", nil, &cards); err != nil {
		return nil, fmt.Errorf("fetching cards for list %s: %w", listID, err)
	}
	return cards, nil
}

// Card returns one card by id.
func (c *Client) Card(ctx context.Context, cardID string) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodGet, "/cards/"+cardID, nil, &card); err != nil {
		return nil, fmt.Errorf("fetching card %s: %w", cardID, err)
	}
	return &card, nil
}

// CreateCard adds a card to a list. desc and due may be empty.
func (c *Client) CreateCard(ctx context.Context, listID, name, desc, due string) (*Card, error) {
	q := url.Values{}
	q.Set("idList", listID)
	q.Set("name", name)
	if desc != "" {
		q.Set("desc", desc)
	}
	if due != "" {
		q.Set("due", due)
	}
	var card Card
	if err := c.do(ctx, http.MethodPost, "/cards", q, &card); err != nil {
		return nil, fmt.Errorf("creating card in list %s: %w", listID, err)
	}
	return &card, nil
}

// UpdateCard modifies the non-empty fields of a card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, fields CardFields) (*Card, error) {
	q := url.Values{}
	if fields.Name != "" {
		q.Set("name", fields.Name)
	}
	if fields.Desc != "" {
		q.Set("desc", fields.Desc)
	}
	if fields.Due != "" {
		q.Set("due", fields.Due)
	}
	var card Card
	if err := c.do(ctx, http.MethodPut, "/cards/"+cardID, q, &card); err != nil {
		return nil, fmt.Errorf("updating card %s: %w", cardID, err)
	}
	return &card, nil
}

// MoveCard moves a card to another list.
func (c *Client) MoveCard(ctx context.Context, cardID, listID string) (*Card, error) {
	q := url.Values{}
	q.Set("idList", listID)
	var card Card
	if err := c.do(ctx, http.MethodPut, "/cards/"+cardID, q, &card); err != nil {
		return nil, fmt.Errorf("moving card %s to list %s: %w", cardID, listID, err)
	}
	return &card, nil
}

// ArchiveCard closes a card. Archived cards drop out of snapshots.
func (c *Client) ArchiveCard(ctx context.Context, cardID string) (*Card, error) {
	q := url.Values{}
	q.Set("closed", "true")
	var card Card
	if err := c.do(ctx, http.MethodPut, "/cards/"+cardID, q, &card); err != nil {
		return nil, fmt.Errorf("archiving card %s: %w", cardID, err)
	}
	return &card, nil
}

// AddComment posts a comment on a card and returns the created action.
func (c *Client) AddComment(ctx context.Context, cardID, text string) (*Action, error) {
	q := url.Values{}
	q.Set("text", text)
	var action Action
	if err := c.do(ctx, http.MethodPost, "/cards/"+cardID+"/actions/comments", q, &action); err != nil {
		return nil, fmt.Errorf("commenting on card %s: %w", cardID, err)
	}
	return &action, nil
}

// CardComments returns a card's comment actions, newest first.
func (c *Client) CardComments(ctx context.Context, cardID string, limit int) ([]Action, error) {
	q := url.Values{}
	q.Set("filter", ActionCommentCard)
	q.Set("limit", strconv.Itoa(limit))
	var actions []Action
	if err := c.do(ctx, http.MethodGet, "/cards/"+cardID+"/actions", q, &actions); err != nil {
		return nil, fmt.Errorf("fetching comments for card %s: %w", cardID, err)
	}
	return actions, nil
}

// BoardLabels returns the labels defined on a board.
func (c *Client) BoardLabels(ctx context.Context, boardID string) ([]Label, error) {
	var labels []Label
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/labels", nil, &labels); err != nil {
		return nil, fmt.Errorf("fetching labels for board %s: %w", boardID, err)
	}
	return labels, nil
}

// AddLabel attaches a board label to a card.
func (c *Client) AddLabel(ctx context.Context, cardID, labelID string) error {
	q := url.Values{}
	q.Set("value", labelID)
	if err := c.do(ctx, http.MethodPost, "/cards/"+cardID+"/idLabels", q, nil); err != nil {
		return fmt.Errorf("adding label %s to card %s: %w", labelID, cardID, err)
	}
	return nil
}

// RemoveLabel detaches a label from a card.
func (c *Client) RemoveLabel(ctx context.Context, cardID, labelID string) error {
	if err := c.do(ctx, http.MethodDelete, "/cards/"+cardID+"/idLabels/"+labelID, nil, nil); err != nil {
		return fmt.Errorf("removing label %s from card %s: %w", labelID, cardID, err)
	}
	return nil
}

// RecentActivity returns the newest limit actions on a board,
// newest first.
func (c *Client) RecentActivity(ctx context.Context, boardID string, limit int) ([]Action, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var actions []Action
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/actions", q, &actions); err != nil {
		return nil, fmt.Errorf("fetching activity for board %s: %w", boardID, err)
	}
	return actions, nil
}

// Attachments returns a card's attachments.
func (c *Client) Attachments(ctx context.Context, cardID string) ([]Attachment, error) {
	var attachments []Attachment
	if err := c.do(ctx, http.MethodGet, "/cards/"+cardID+"/attachments", nil, &attachments); err != nil {
		return nil, fmt.Errorf("fetching attachments for card %s: %w", cardID, err)
	}
	return attachments, nil
}

// DownloadAttachment streams an attachment's bytes. Trello serves
// uploaded files from a separate host that authenticates via an OAuth
// header rather than query parameters. The caller must close the reader.
func (c *Client) DownloadAttachment(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("Authorization",
		fmt.Sprintf(`OAuth oauth_consumer_key="%s", oauth_token="%s"`, c.apiKey, c.token))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading attachment: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp.Body, nil
}
