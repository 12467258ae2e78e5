package inventree

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/parttree/pkg/cache"
	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/httputil"
	"github.com/matzehuels/parttree/pkg/observability"
	"github.com/matzehuels/parttree/pkg/tree"
)

const (
	treeAPIPath  = "/plugin/product_tree/api/tree/%d/"
	treePagePath = "/plugin/product_tree/tree/%d/"
	partPagePath = "/part/%d/"
)

// Config configures a [Client].
type Config struct {
	Host  string // base URL, e.g. https://inventree.example.com
	Token string // API token sent as "Authorization: Token <t>"

	Cache cache.Cache   // nil disables caching
	TTL   time.Duration // cache lifetime; zero uses cache.TTLTree

	HTTPClient *http.Client // nil uses httputil.NewHTTPClient
	Logger     *log.Logger  // nil discards log output

	Attempts   int           // total tries for transient failures; zero means 3
	RetryDelay time.Duration // first backoff delay; zero means one second
}

// FetchOptions are the query parameters of a tree request.
type FetchOptions struct {
	// MaxDepth limits BOM levels below the part. It is clamped to
	// [0, tree.MaxDepthLimit].
	MaxDepth int
	// IncludeSubstitutes asks the host to list substitute parts per line.
	IncludeSubstitutes bool
	// Refresh bypasses the cache; the fresh response is still stored.
	Refresh bool
}

// Client talks to one InvenTree host. It is safe for concurrent use.
type Client struct {
	base     *url.URL
	http     *httputil.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	logger   *log.Logger
	attempts int
	delay    time.Duration
}

// NewClient validates cfg and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if err := errors.ValidateURL(host); err != nil {
		return nil, err
	}
	base, _ := url.Parse(host)

	headers := map[string]string{"Accept": "application/json"}
	keyer := cache.NewDefaultKeyer()
	if cfg.Token != "" {
		headers["Authorization"] = "Token " + cfg.Token
		keyer = cache.NewScopedKeyer(keyer, "token:"+cache.Hash([]byte(cfg.Token))[:12]+":")
	}

	c := &Client{
		base:     base,
		http:     httputil.NewClient(cfg.HTTPClient, headers),
		cache:    cfg.Cache,
		keyer:    keyer,
		ttl:      cfg.TTL,
		logger:   cfg.Logger,
		attempts: cfg.Attempts,
		delay:    cfg.RetryDelay,
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.ttl == 0 {
		c.ttl = cache.TTLTree
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.attempts <= 0 {
		c.attempts = 3
	}
	if c.delay <= 0 {
		c.delay = time.Second
	}
	return c, nil
}

// Host returns the normalized base URL.
func (c *Client) Host() string { return c.base.String() }

// TreeURL returns the API endpoint for partID with opts applied.
func (c *Client) TreeURL(partID int, opts FetchOptions) string {
	q := url.Values{}
	q.Set("max_depth", strconv.Itoa(tree.ClampDepth(opts.MaxDepth)))
	if opts.IncludeSubstitutes {
		q.Set("include_substitutes", "1")
	}
	return c.resolve(fmt.Sprintf(treeAPIPath, partID)) + "?" + q.Encode()
}

// PageURL returns the host's interactive tree page for partID.
func (c *Client) PageURL(partID int) string {
	return c.resolve(fmt.Sprintf(treePagePath, partID))
}

// PartURL returns the host's detail page for partID.
func (c *Client) PartURL(partID int) string {
	return c.resolve(fmt.Sprintf(partPagePath, partID))
}

// Resolve turns a host-relative link (as found in tree.Node.URL) into an
// absolute URL. Absolute links and the empty string are returned as is.
func (c *Client) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

func (c *Client) resolve(path string) string {
	return strings.TrimRight(c.base.String(), "/") + path
}

// FetchTree retrieves the hierarchy below partID. Part links in the
// result are absolute URLs on the host.
func (c *Client) FetchTree(ctx context.Context, partID int, opts FetchOptions) (*tree.Node, error) {
	if err := errors.ValidatePartID(partID); err != nil {
		return nil, err
	}
	opts.MaxDepth = tree.ClampDepth(opts.MaxDepth)

	key := c.keyer.TreeKey(c.Host(), tree.IntID(partID), cache.TreeKeyOpts{
		MaxDepth:    opts.MaxDepth,
		Substitutes: opts.IncludeSubstitutes,
	})
	hooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed", "part", partID, "error", err)
		}
		if hit {
			if root, err := decodeTree(data); err == nil {
				c.absolutize(root)
				hooks.OnCacheHit(ctx, "tree")
				c.logger.Debug("tree cache hit", "part", partID)
				return root, nil
			}
			c.logger.Debug("discarding unreadable cache entry", "part", partID)
		}
		hooks.OnCacheMiss(ctx, "tree")
	}

	endpoint := c.TreeURL(partID, opts)
	c.logger.Debug("fetching tree", "url", endpoint)

	var body []byte
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.http.Get(ctx, endpoint, nil)
		if httputil.IsRetryable(err) {
			c.logger.Debug("retrying tree fetch", "part", partID, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, c.mapError(ctx, partID, err)
	}

	root, err := decodeTree(body)
	if err != nil {
		return nil, err
	}
	c.absolutize(root)

	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "part", partID, "error", err)
	} else {
		hooks.OnCacheSet(ctx, "tree", len(body))
	}
	return root, nil
}

// absolutize rewrites the part links below n to absolute URLs on this
// host. Parts the host sent without a link get their detail page.
func (c *Client) absolutize(n *tree.Node) {
	n.URL = c.partLink(n.ID, n.URL)
	for i := range n.Substitutes {
		s := &n.Substitutes[i]
		s.URL = c.partLink(s.ID, s.URL)
	}
	for _, e := range n.Children {
		if e.Child != nil {
			c.absolutize(e.Child)
		}
	}
}

func (c *Client) partLink(id tree.ID, ref string) string {
	if ref != "" {
		return c.Resolve(ref)
	}
	if pk, err := strconv.Atoi(id.String()); err == nil && pk > 0 {
		return c.PartURL(pk)
	}
	return ""
}

func decodeTree(data []byte) (*tree.Node, error) {
	var root tree.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "host response is not a product tree")
	}
	if root.ID.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "host response has no part id")
	}
	return &root, nil
}

func (c *Client) mapError(ctx context.Context, partID int, err error) error {
	switch {
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded:
		return errors.Wrap(errors.ErrCodeTimeout, err, "timed out fetching part %d", partID)
	case stderrors.Is(err, httputil.ErrNotFound):
		return errors.Wrap(errors.ErrCodePartNotFound, err, "part %d not found on %s", partID, c.Host())
	case stderrors.Is(err, httputil.ErrUnauthorized):
		return errors.Wrap(errors.ErrCodeUnauthorized, err, "%s rejected the API token", c.Host())
	case stderrors.Is(err, httputil.ErrForbidden):
		return errors.Wrap(errors.ErrCodeForbidden, err, "no permission to view part %d", partID)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch part %d from %s", partID, c.Host())
	}
}
