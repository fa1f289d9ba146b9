// Package client is a small Go client for the Brightpath engagement API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 5 * time.Second

// Client calls the engagement API. It is safe for concurrent use.
type Client struct {
	base  string
	token string
	hc    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends the bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("brightpath api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("brightpath api: %d: %s", e.Status, e.Message)
}

type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type LikeStatus struct {
	TargetID  string `json:"targetId"`
	IsLiked   bool   `json:"isLiked"`
	LikeCount int    `json:"likeCount"`
}

type Comment struct {
	ID              string    `json:"id"`
	ParentCommentID string    `json:"parentCommentId,omitempty"`
	AuthorName      string    `json:"authorName,omitempty"`
	Content         string    `json:"content,omitempty"`
	LikeCount       int       `json:"likeCount"`
	Tombstone       bool      `json:"tombstone,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TogglePostLike flips the caller's like on a post.
func (c *Client) TogglePostLike(ctx context.Context, postID string) (*LikeResult, error) {
	var out LikeResult
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleCommentLike flips the caller's like on a comment.
func (c *Client) ToggleCommentLike(ctx context.Context, commentID string) (*LikeResult, error) {
	var out LikeResult
	if err := c.do(ctx, http.MethodPost, "/api/comments/"+url.PathEscape(commentID)+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostLikeStatus returns counts and the caller's liked flag for each post, in order.
func (c *Client) PostLikeStatus(ctx context.Context, postIDs []string) ([]LikeStatus, error) {
	return c.likeStatus(ctx, "/api/posts/likes/status", postIDs)
}

// CommentLikeStatus is PostLikeStatus for comments.
func (c *Client) CommentLikeStatus(ctx context.Context, commentIDs []string) ([]LikeStatus, error) {
	return c.likeStatus(ctx, "/api/comments/likes/status", commentIDs)
}

func (c *Client) likeStatus(ctx context.Context, path string, ids []string) ([]LikeStatus, error) {
	if ids == nil {
		ids = []string{}
	}
	var out struct {
		Items []LikeStatus `json:"items"`
	}
	if err := c.do(ctx, http.MethodPost, path, map[string]any{"targetIds": ids}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// IncrementView records one view of a published post and returns the new total.
func (c *Client) IncrementView(ctx context.Context, postID, slug string) (int, error) {
	var out struct {
		ViewCount int `json:"view_count"`
	}
	body := map[string]string{"postId": postID, "slug": slug}
	if err := c.do(ctx, http.MethodPost, "/api/posts/views", body, &out); err != nil {
		return 0, err
	}
	return out.ViewCount, nil
}

// Comments returns the public thread of a post.
func (c *Client) Comments(ctx context.Context, postID string) ([]Comment, error) {
	var out struct {
		Data []Comment `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID)+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateComment submits a comment for moderation and returns its ID.
// parentID may be empty for a top-level comment.
func (c *Client) CreateComment(ctx context.Context, postID, parentID, authorName, content string) (string, error) {
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	body := map[string]string{
		"parentCommentId": parentID,
		"authorName":      authorName,
		"content":         content,
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comments", body, &out); err != nil {
		return "", err
	}
	return out.Data.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var failure struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil {
			apiErr.Message = failure.Message
			apiErr.Code = failure.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
