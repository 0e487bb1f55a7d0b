package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/yansassi23/restaurapro/internal/models"
)

// Client represents HTTP client for the asset store
type Client struct {
	client  *http.Client
	baseURL string
	bucket  string
}

// NewClient creates new Client instance
func NewClient(baseURL, bucket string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		bucket:  bucket,
	}
}

type listEntry struct {
	Name string `json:"name"`
}

// Put stores data under key and returns its public reference.
// POST /object/{bucket}/{key}
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	u, err := url.JoinPath(c.baseURL, "object", c.bucket, key)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return "", err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return c.PublicRef(key)
	default:
		return "", models.ErrAssetStoreFailure
	}
}

// List returns public references of stored objects under prefix.
// GET /object/list/{bucket}?prefix={prefix}
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	u, err := url.JoinPath(c.baseURL, "object", "list", c.bucket)
	if err != nil {
		return nil, err
	}
	u += "?prefix=" + url.QueryEscape(prefix)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var entries []listEntry
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			return nil, err
		}
		refs := make([]string, 0, len(entries))
		for _, e := range entries {
			ref, err := c.PublicRef(e.Name)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		return refs, nil
	case http.StatusNotFound:
		return nil, models.ErrDataNotFound
	default:
		return nil, models.ErrAssetStoreFailure
	}
}

// PublicRef derives the publicly dereferenceable locator of key
func (c *Client) PublicRef(key string) (string, error) {
	return url.JoinPath(c.baseURL, "object", "public", c.bucket, key)
}
