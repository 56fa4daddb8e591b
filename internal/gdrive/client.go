// Package gdrive is a convenience layer over the Google Drive API: it
// resolves folders and files by name or id, lists children by type,
// downloads content in exported formats, and uploads with
// replace-if-changed reconciliation. Remote calls run through an
// executor that retries rate limits with backoff and absorbs
// not-found outcomes as nil results, so callers only ever see "here is
// the object", "there is nothing", or a fatal error.
package gdrive

import (
	"log/slog"
	"net/http"
)

// Client is the package entry point. It owns one transport handle,
// constructed lazily on first use from the injected HTTP client and
// reused for every subsequent call. Client performs no cross-call
// caching; every resolution round-trips to the remote service.
//
// Client is not safe for concurrent use; run one Client per worker.
type Client struct {
	httpClient *http.Client
	pageSize   int64
	logger     *slog.Logger

	transport Transport
	exec      *Executor
	resolver  *Resolver
	syncer    *Syncer
}

// Option configures a Client.
type Option func(*Client)

// WithLogger routes executor and syncer observability output to
// logger. The default discards it.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPageSize sets the per-page result count for listing calls.
func WithPageSize(n int64) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// WithTransport injects a ready transport, bypassing lazy
// construction. Tests use this to run against a fake.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New builds a Client over an authorized HTTP client, typically the
// one produced by the auth package.
func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		pageSize:   100,
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// handles returns the lazily-built transport and executor.
func (c *Client) handles() (Transport, *Executor, error) {
	if c.transport == nil {
		transport, err := NewTransport(c.httpClient, c.pageSize)
		if err != nil {
			return nil, nil, err
		}

		c.transport = transport
	}

	if c.exec == nil {
		c.exec = NewExecutor(c.logger)
	}

	return c.transport, c.exec, nil
}

// Resolver returns the client's object resolver, building the
// transport on first use.
func (c *Client) Resolver() (*Resolver, error) {
	if c.resolver == nil {
		transport, exec, err := c.handles()
		if err != nil {
			return nil, err
		}

		c.resolver = NewResolver(transport, exec)
	}

	return c.resolver, nil
}

// Syncer returns the client's content syncer, building the transport
// on first use.
func (c *Client) Syncer() (*Syncer, error) {
	if c.syncer == nil {
		resolver, err := c.Resolver()
		if err != nil {
			return nil, err
		}

		c.syncer = NewSyncer(c.transport, resolver, c.exec, c.logger)
	}

	return c.syncer, nil
}

// Folder finds a folder by name anywhere in the workspace. A nil
// result means no such folder exists.
func (c *Client) Folder(name string) (*Object, error) {
	resolver, err := c.Resolver()
	if err != nil {
		return nil, err
	}

	return resolver.FolderByName(name, "")
}

// File finds a non-folder object by name, scoped to parentID when
// given. A nil result means no such file exists.
func (c *Client) File(name, parentID string) (*Object, error) {
	resolver, err := c.Resolver()
	if err != nil {
		return nil, err
	}

	return resolver.FileByName(name, parentID)
}

// ByID fetches an object by identifier; nil when it does not resolve.
func (c *Client) ByID(id string) (*Object, error) {
	resolver, err := c.Resolver()
	if err != nil {
		return nil, err
	}

	return resolver.ByID(id)
}

// Children lists a folder's non-trashed children: all non-folder
// children when mimeTypes is empty, otherwise the union of matches
// across the given types.
func (c *Client) Children(parentID string, mimeTypes ...string) ([]*Object, error) {
	resolver, err := c.Resolver()
	if err != nil {
		return nil, err
	}

	return resolver.Children(parentID, mimeTypes...)
}

// Write uploads content with reconciliation against any existing
// target. See Syncer.Write for the nil-result contract.
func (c *Client) Write(req WriteRequest) (*Object, error) {
	syncer, err := c.Syncer()
	if err != nil {
		return nil, err
	}

	return syncer.Write(req)
}
