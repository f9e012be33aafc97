package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/weighted/api"
)

var (
	errRetryable = errors.New("", j.C("ERR_3e9b0c6d47a1f825"))

	ErrNotFound = errors.New("not found", j.C("ERR_8d41f7a2c05b9e63"))
	ErrRejected = errors.New("request rejected", j.C("ERR_f26c3a9e1b7d0485"))
)

type Client struct {
	baseURL    string
	cli        *http.Client
	reqTimeout time.Duration
	retries    int
	backoff    time.Duration
}

type ClientOption func(*Client)

func WithBaseURL(url string) ClientOption {
	return func(client *Client) {
		client.baseURL = strings.TrimSuffix(url, "/")
	}
}

func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.cli = c
	}
}

func WithRetries(n int, backoff time.Duration) ClientOption {
	return func(client *Client) {
		client.retries = n
		client.backoff = backoff
	}
}

func New(opts ...ClientOption) *Client {
	ret := &Client{
		baseURL:    "http://localhost/weighted",
		cli:        http.DefaultClient,
		reqTimeout: 30 * time.Second,
		retries:    4,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.cli == nil {
		panic("no http client specified")
	}
	return ret
}

func wrapHTTPError(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*url.Error); ok {
		if e.Timeout() {
			return errors.Wrap(errRetryable, err.Error())
		}
	}
	return err
}

func (c *Client) doRetry(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	retries := c.retries
	wait := c.backoff
	for {
		resp, err := c.do(ctx, method, path, body)
		if err == nil {
			return resp, nil
		}
		if !errors.IsAny(err, context.DeadlineExceeded, errRetryable) || retries <= 0 {
			return nil, err
		}
		select {
		case <-time.After(wait):
			wait *= 2
			retries--
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		log.Info(ctx, "retrying request", j.MKV{"path": path})
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.reqTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, wrapHTTPError(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	s := strings.TrimSpace(string(b))
	switch {
	case resp.StatusCode == http.StatusOK:
		return b, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrap(ErrNotFound, "", j.MKV{"path": path, "response": s})
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, errors.Wrap(ErrRejected, "", j.MKV{"status": resp.StatusCode, "response": s})
	}
	return nil, errors.New("request failed", j.MKV{"status": resp.StatusCode, "response": s})
}

func distributionPath(name string) string {
	return "/api/distributions/" + url.PathEscape(name)
}

// AddWeights sets the weights of keys in the named distribution, creating
// it if it does not exist.
func (c *Client) AddWeights(ctx context.Context, name string, entries ...api.WeightUpdate) error {
	b, err := json.Marshal(api.AddWeights{Entries: entries})
	if err != nil {
		return errors.Wrap(err, "")
	}
	_, err = c.doRetry(ctx, http.MethodPost, distributionPath(name)+"/weights", b)
	return err
}

func (c *Client) Sample(ctx context.Context, name string, count int) ([]string, error) {
	b, err := json.Marshal(api.SampleRequest{Count: count})
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	r, err := c.doRetry(ctx, http.MethodPost, distributionPath(name)+"/sample", b)
	if err != nil {
		return nil, err
	}
	var resp api.SampleResponse
	err = json.Unmarshal(r, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return resp.Keys, nil
}

func (c *Client) GetDistribution(ctx context.Context, name string) (api.Distribution, error) {
	r, err := c.do(ctx, http.MethodGet, distributionPath(name), nil)
	if err != nil {
		return api.Distribution{}, err
	}
	var resp api.Distribution
	err = json.Unmarshal(r, &resp)
	if err != nil {
		return api.Distribution{}, errors.Wrap(err, "")
	}
	return resp, nil
}

func (c *Client) ListDistributions(ctx context.Context) (api.ListDistributionsResponse, error) {
	r, err := c.do(ctx, http.MethodGet, "/api/distributions", nil)
	if err != nil {
		return api.ListDistributionsResponse{}, err
	}
	var resp api.ListDistributionsResponse
	err = json.Unmarshal(r, &resp)
	if err != nil {
		return api.ListDistributionsResponse{}, errors.Wrap(err, "")
	}
	return resp, nil
}
