package logclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/five82/daylog/internal/logstore"
)

// Fetcher defines the read surface the viewer needs from the daemon.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	ListPartitions(ctx context.Context) ([]string, error)
	Read(ctx context.Context, id string, lines int) (Batch, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Batch is one tail read of a partition.
type Batch struct {
	Partition string
	Lines     []string
	Levels    []logstore.Level
	Message   string
}

// Client talks to the daylog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
	parsers   fastjson.ParserPool
}

const (
	defaultAPIBind   = "127.0.0.1:7488"
	defaultUserAgent = "daylog/0.1"
	requestTimeout   = 5 * time.Second
	maxResponseBytes = 64 << 20
)

// NewClient builds a Client using the provided apiBind host:port value.
// token is sent as a bearer token when non-empty.
func NewClient(apiBind, token string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}, nil
}

// ListPartitions returns partition identifiers, most recent first.
func (c *Client) ListPartitions(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var ids []string
	err := c.get(ctx, &url.URL{Path: "/logs"}, func(v *fastjson.Value) error {
		ids = stringArray(v.Get("data"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Read fetches the tail of a partition. An empty id or "today" reads the
// current partition. lines <= 0 lets the server pick its default.
func (c *Client) Read(ctx context.Context, id string, lines int) (Batch, error) {
	if c == nil {
		return Batch{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = logstore.TodayID
	}
	rel := &url.URL{Path: "/logs/" + id}
	if lines > 0 {
		rel.RawQuery = url.Values{"lines": {strconv.Itoa(lines)}}.Encode()
	}
	var batch Batch
	err := c.get(ctx, rel, func(v *fastjson.Value) error {
		batch.Partition = string(v.GetStringBytes("partition"))
		batch.Message = string(v.GetStringBytes("message"))
		batch.Lines = stringArray(v.Get("data"))
		batch.Levels = levelArray(v.Get("levels"), batch.Lines)
		return nil
	})
	if err != nil {
		return Batch{}, err
	}
	return batch, nil
}

func (c *Client) get(ctx context.Context, rel *url.URL, decode func(*fastjson.Value) error) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	p := c.parsers.Get()
	defer c.parsers.Put(p)
	v, parseErr := p.ParseBytes(body)

	if resp.StatusCode >= 400 {
		if parseErr == nil {
			if msg := string(v.GetStringBytes("message")); msg != "" {
				return fmt.Errorf("api %s returned status %d: %s", rel.Path, resp.StatusCode, msg)
			}
		}
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if parseErr != nil {
		return fmt.Errorf("decode response: %w", parseErr)
	}
	if !v.GetBool("success") {
		msg := string(v.GetStringBytes("message"))
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("api %s: %s", rel.Path, msg)
	}
	return decode(v)
}

func stringArray(v *fastjson.Value) []string {
	out := []string{}
	if v == nil || v.Type() != fastjson.TypeArray {
		return out
	}
	items, _ := v.Array()
	for _, item := range items {
		out = append(out, string(item.GetStringBytes()))
	}
	return out
}

// levelArray decodes the levels array. When the server omits it or the
// lengths disagree, levels are classified locally from the line text.
func levelArray(v *fastjson.Value, lines []string) []logstore.Level {
	levels := make([]logstore.Level, len(lines))
	var items []*fastjson.Value
	if v != nil && v.Type() == fastjson.TypeArray {
		items, _ = v.Array()
	}
	if len(items) != len(lines) {
		for i, line := range lines {
			levels[i] = logstore.ClassifyLine(line)
		}
		return levels
	}
	for i, item := range items {
		level, err := logstore.ParseLevel(string(item.GetStringBytes()))
		if err != nil {
			level = logstore.ClassifyLine(lines[i])
		}
		levels[i] = level
	}
	return levels
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
