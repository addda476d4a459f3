package annotate

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// Annotator turns text into tokens with POS tags, dependency labels and
// sentence boundaries. Implementations must be safe for concurrent use.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Doc, error)
}

// AnnotatorFunc adapts a function to Annotator.
type AnnotatorFunc func(ctx context.Context, text string) (*Doc, error)

func (f AnnotatorFunc) Annotate(ctx context.Context, text string) (*Doc, error) {
	return f(ctx, text)
}

// DefaultTimeout bounds one annotation request.
const DefaultTimeout = 30 * time.Second

// Client calls an HTTP annotation service that accepts {"text": "..."} and
// answers with the token wire format.
type Client struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	once sync.Once
	http *resty.Client
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		Endpoint: endpoint,
		Timeout:  timeout,
		http:     resty.New().SetTimeout(timeout),
	}
}

type annotateRequest struct {
	Text string `json:"text"`
}

// Annotate implements Annotator. Transport errors and non-2xx answers wrap
// internalerr.ErrAnnotationFailed; undecodable bodies wrap ErrMalformedAnnotation.
func (c *Client) Annotate(ctx context.Context, text string) (*Doc, error) {
	if strings.TrimSpace(text) == "" {
		return Empty(), nil
	}
	if c.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint required", internalerr.ErrAnnotationFailed)
	}
	req := c.client().R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(annotateRequest{Text: text})
	if c.APIKey != "" {
		req.SetAuthToken(c.APIKey)
	}
	resp, err := req.Post(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrAnnotationFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", internalerr.ErrAnnotationFailed, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return Decode(bytes.NewReader(resp.Body()))
}

func (c *Client) client() *resty.Client {
	c.once.Do(func() {
		if c.http != nil {
			return
		}
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = resty.New().SetTimeout(timeout)
	})
	return c.http
}

// Cached memoises an Annotator by input text. Annotation is a pure function of
// the text, so repeated texts are served from memory.
type Cached struct {
	next  Annotator
	cache *lru.Cache[string, *Doc]
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next Annotator, size int) (*Cached, error) {
	if next == nil {
		return nil, fmt.Errorf("%w: annotator required", internalerr.ErrInvalidInput)
	}
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, *Doc](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

// Annotate implements Annotator. Failures are not cached.
func (c *Cached) Annotate(ctx context.Context, text string) (*Doc, error) {
	if doc, ok := c.cache.Get(text); ok {
		return doc, nil
	}
	doc, err := c.next.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, doc)
	return doc, nil
}
