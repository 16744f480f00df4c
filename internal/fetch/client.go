package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/godilite/histogram-browser/internal/histogram"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public histogram repository.
const DefaultBaseURL = "https://michael-maltsev.github.io/technion-histograms"

const (
	defaultTimeout = 15 * time.Second
	maxIndexBytes  = 8 << 20
)

var (
	ErrFetchFailed   = errors.New("histogram data fetch failed")
	ErrInvalidCourse = errors.New("invalid course")
)

// Outcome classifies a load.
type Outcome int

const (
	// OutcomeFailed covers transport errors, unexpected statuses and bad JSON.
	OutcomeFailed Outcome = iota
	// OutcomeFound carries a parsed index, possibly with zero semesters.
	OutcomeFound
	// OutcomeEmpty means the course has no shared histograms.
	OutcomeEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Result is the classified outcome of one Load.
type Result struct {
	Outcome Outcome
	Index   histogram.Index
	Status  int
	Err     error
}

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Logger     *zap.Logger
}

type Option func(*Options)

func WithBaseURL(base string) Option {
	return func(o *Options) { o.BaseURL = base }
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

func WithHTTPClient(c HTTPDoer) Option {
	return func(o *Options) { o.HTTPClient = c }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Client loads per-course statistics indexes. Every Load issues exactly one
// request; nothing is retried or cached.
type Client struct {
	base    *url.URL
	timeout time.Duration
	http    HTTPDoer
	logger  *zap.Logger
}

func New(opts ...Option) (*Client, error) {
	options := &Options{
		BaseURL: DefaultBaseURL,
		Timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}

	base, err := url.Parse(strings.TrimRight(options.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", options.BaseURL)
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{}
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	return &Client{
		base:    base,
		timeout: options.Timeout,
		http:    options.HTTPClient,
		logger:  options.Logger.Named("fetch"),
	}, nil
}

// Load fetches {base}/{course}/index.json and classifies the response.
func (c *Client) Load(ctx context.Context, course string) Result {
	if err := validateCourse(course); err != nil {
		return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("%w: %v", ErrFetchFailed, err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	indexURL := c.IndexURL(course)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return c.failed(course, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.failed(course, 0, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes))
		if err != nil {
			return c.failed(course, resp.StatusCode, fmt.Errorf("read body: %w", err))
		}
		idx, err := histogram.ParseIndex(body)
		if err != nil {
			return c.failed(course, resp.StatusCode, fmt.Errorf("parse index: %w", err))
		}
		c.logger.Info("histogram index loaded",
			zap.String("course", course),
			zap.Int("semesters", idx.Len()),
			zap.Duration("duration", time.Since(start)))
		return Result{Outcome: OutcomeFound, Index: idx, Status: resp.StatusCode}

	case http.StatusNotFound:
		c.logger.Info("no histograms shared for course", zap.String("course", course))
		return Result{Outcome: OutcomeEmpty, Status: resp.StatusCode}

	default:
		return c.failed(course, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func (c *Client) failed(course string, status int, err error) Result {
	c.logger.Warn("histogram index load failed",
		zap.String("course", course),
		zap.Int("status", status),
		zap.Error(err))
	return Result{Outcome: OutcomeFailed, Status: status, Err: fmt.Errorf("%w: %v", ErrFetchFailed, err)}
}

// IndexURL returns the location of a course's statistics index.
func (c *Client) IndexURL(course string) string {
	return c.join(course, "index.json")
}

// ImageURL returns the histogram image of one course/semester/category.
// The URL is never fetched here.
func (c *Client) ImageURL(course, semester, category string) string {
	return c.join(course, semester, category+".png")
}

// FallbackURL is the manual escape hatch shown when loading fails.
func (c *Client) FallbackURL(course string) string {
	return c.join(course) + "/"
}

func (c *Client) join(segments ...string) string {
	u := *c.base
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	return u.String()
}

func validateCourse(course string) error {
	if strings.TrimSpace(course) == "" {
		return fmt.Errorf("%w: empty course", ErrInvalidCourse)
	}
	if strings.ContainsAny(course, "/\\") || course == "." || course == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidCourse, course)
	}
	return nil
}
