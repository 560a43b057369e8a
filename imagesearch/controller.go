package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Brawl345/pixabot/logger"
)

type (
	Searcher interface {
		Search(ctx context.Context, query string, page int) (Response, error)
	}

	SearcherFunc func(ctx context.Context, query string, page int) (Response, error)

	// LoadingHook is called right before the search provider is queried.
	LoadingHook func(ctx context.Context, req Request)

	// LoadedHook is called after a page was appended. added holds only the
	// images of that page.
	LoadedHook func(ctx context.Context, req Request, added []ImageSummary, view View)

	Option func(c *Controller)

	// Controller drives one search session. All transitions are
	// serialised, the lock is released while the provider is queried.
	Controller struct {
		mu        sync.Mutex
		state     State
		searcher  Searcher
		notifier  Notifier
		onLoading LoadingHook
		onLoaded  LoadedHook
		log       *logger.Logger
	}
)

func (f SearcherFunc) Search(ctx context.Context, query string, page int) (Response, error) {
	return f(ctx, query, page)
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

func WithLoadingHook(hook LoadingHook) Option {
	return func(c *Controller) {
		c.onLoading = hook
	}
}

func WithLoadedHook(hook LoadedHook) Option {
	return func(c *Controller) {
		c.onLoaded = hook
	}
}

// WithGenerationSource draws generations from next instead of a per
// controller counter. next must return strictly increasing values.
func WithGenerationSource(next func() uint64) Option {
	return func(c *Controller) {
		c.state.nextGeneration = next
	}
}

func NewController(searcher Searcher, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		searcher: searcher,
		notifier: notifier,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a new search. Submitting the current query again only
// emits a NoticeDuplicateQuery.
func (c *Controller) Submit(ctx context.Context, query string) error {
	c.mu.Lock()
	req, err := c.state.Submit(query)
	current := c.state.Query
	c.mu.Unlock()

	if errors.Is(err, ErrDuplicateQuery) {
		c.notify(ctx, Notice{Kind: NoticeDuplicateQuery, Query: current})
		return err
	}
	if err != nil {
		return err
	}

	c.log.Debug().
		Str("query", req.Query).
		Uint64("generation", req.Generation).
		Msg("new query")

	return c.fetch(ctx, req)
}

// RequestNextPage fetches exactly one more page for the current query.
func (c *Controller) RequestNextPage(ctx context.Context) error {
	c.mu.Lock()
	req, err := c.state.NextPage()
	c.mu.Unlock()

	if err != nil {
		return err
	}
	return c.fetch(ctx, req)
}

func (c *Controller) fetch(ctx context.Context, req Request) error {
	c.mu.Lock()
	c.state.Begin(req)
	c.mu.Unlock()

	if c.onLoading != nil {
		c.onLoading(ctx, req)
	}

	resp, err := c.searcher.Search(ctx, req.Query, req.Page)

	c.mu.Lock()
	if err != nil {
		current := c.state.Fail(req)
		c.mu.Unlock()

		if !current {
			c.log.Debug().
				Err(err).
				Str("query", req.Query).
				Int("page", req.Page).
				Msg("discarding failure of stale request")
			return nil
		}

		c.notify(ctx, Notice{Kind: NoticeFailure, Query: req.Query, Page: req.Page, Err: err})
		return fmt.Errorf("searching %q (page %d): %w", req.Query, req.Page, err)
	}
	before := len(c.state.Results)
	outcome := c.state.Apply(req, resp)
	var added []ImageSummary
	var view View
	if outcome == OutcomeLoaded {
		added = make([]ImageSummary, len(c.state.Results)-before)
		copy(added, c.state.Results[before:])
		view = c.state.View()
	}
	c.mu.Unlock()

	switch outcome {
	case OutcomeStale:
		c.log.Debug().
			Str("query", req.Query).
			Int("page", req.Page).
			Msg("discarding stale response")
	case OutcomeEmpty:
		c.notify(ctx, Notice{Kind: NoticeNothingFound, Query: req.Query, Page: req.Page})
	case OutcomeLoaded:
		c.log.Debug().
			Str("query", req.Query).
			Int("page", req.Page).
			Int("hits", len(resp.Hits)).
			Int("total_hits", resp.TotalHits).
			Send()
		if c.onLoaded != nil {
			c.onLoaded(ctx, req, added, view)
		}
	}

	return nil
}

func (c *Controller) notify(ctx context.Context, notice Notice) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, notice)
}

func (c *Controller) SelectImage(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Select(url)
}

func (c *Controller) CloseImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Close()
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Generation()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.View()
}
