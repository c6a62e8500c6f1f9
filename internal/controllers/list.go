package controllers

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"mediadeck/internal/models"
	"mediadeck/internal/services/catalog"
	"mediadeck/internal/session"
)

// ConfirmFunc asks the user to confirm a destructive action. The view
// layer supplies it; tests stub it.
type ConfirmFunc func(media models.Media) bool

// ListController owns the paginated media cache, the page cursor and the
// single-flight fetch guard. Filtering runs over the cache it holds; the
// cache itself only moves on explicit loads, mutations and deletes.
type ListController struct {
	client   *catalog.Client
	session  *session.Store
	logger   *logrus.Logger
	pageSize int
	rollback bool
	confirm  ConfirmFunc

	mu      sync.Mutex
	items   []models.Media
	page    int
	hasMore bool
	loading bool
}

// NewListController creates a new media list controller
func NewListController(client *catalog.Client, sess *session.Store, pageSize int, rollback bool, confirm ConfirmFunc, logger *logrus.Logger) *ListController {
	if confirm == nil {
		confirm = func(models.Media) bool { return true }
	}

	return &ListController{
		client:   client,
		session:  sess,
		logger:   logger,
		pageSize: pageSize,
		rollback: rollback,
		confirm:  confirm,
		page:     1,
		hasMore:  true,
	}
}

// LoadPage fetches one page of the collection. With reset it replaces
// the cache, otherwise it appends. A call while a fetch is in flight is
// dropped, not queued.
func (c *ListController) LoadPage(ctx context.Context, page int, reset bool) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		c.logger.WithField("page", page).Debug("Fetch already in flight, dropping load")
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	resp, err := c.client.ListMedia(ctx, c.session.Token(), page, c.pageSize)
	if err != nil {
		c.logger.WithError(err).WithField("page", page).Error("Failed to load media page")
		return err
	}

	fetched := make([]models.Media, 0, len(resp.Data))
	for _, m := range resp.Data {
		m.ImageURL = c.absolutePosterURL(m.ImageURL)
		fetched = append(fetched, m)
	}

	totalPages := 1
	if resp.Pagination != nil && resp.Pagination.TotalPages > 0 {
		totalPages = resp.Pagination.TotalPages
	}

	c.mu.Lock()
	if reset {
		c.items = fetched
	} else {
		c.items = append(c.items, fetched...)
	}
	c.page = page
	c.hasMore = page < totalPages && len(fetched) > 0
	count := len(c.items)
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"page":    page,
		"fetched": len(fetched),
		"cached":  count,
		"reset":   reset,
	}).Info("Media page loaded")

	return nil
}

// LoadMore advances the cursor by one page and appends. Safe to trigger
// repeatedly: the in-flight guard drops overlapping calls and the cursor
// only advances on a successful fetch.
func (c *ListController) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	next := c.page + 1
	c.mu.Unlock()

	return c.LoadPage(ctx, next, false)
}

// Refresh reloads the first page, replacing the whole cache. Called
// after any successful create or update: the cache is never patched in
// place, it is rebuilt from the server.
func (c *ListController) Refresh(ctx context.Context) error {
	return c.LoadPage(ctx, 1, true)
}

// DeleteRecord removes a record after confirmation. The cache entry is
// removed optimistically before the server responds; on failure the
// record is reinserted at its original position when rollback is
// enabled, otherwise the removal stands and only the error is surfaced.
func (c *ListController) DeleteRecord(ctx context.Context, id int64) error {
	c.mu.Lock()
	index := -1
	var record models.Media
	for i, m := range c.items {
		if m.ID == id {
			index = i
			record = m
			break
		}
	}
	c.mu.Unlock()

	if index < 0 {
		c.logger.WithField("id", id).Warn("Delete requested for unknown record")
		return nil
	}

	if !c.confirm(record) {
		c.logger.WithField("id", id).Debug("Delete not confirmed")
		return nil
	}

	c.removeAt(id)

	if err := c.client.DeleteMedia(ctx, c.session.Token(), id); err != nil {
		c.logger.WithError(err).WithField("id", id).Error("Failed to delete media")
		if c.rollback {
			c.reinsert(record, index)
		}
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"id":    id,
		"title": record.Title,
	}).Info("Media deleted")
	return nil
}

// removeAt drops the record with the given id, if still cached
func (c *ListController) removeAt(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, m := range c.items {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	c.items = kept
}

// reinsert restores a record at its pre-removal index
func (c *ListController) reinsert(record models.Media, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index > len(c.items) {
		index = len(c.items)
	}
	c.items = append(c.items, models.Media{})
	copy(c.items[index+1:], c.items[index:])
	c.items[index] = record
}

// absolutePosterURL prefixes server-relative poster paths with the API
// origin; already-absolute URLs pass through untouched.
func (c *ListController) absolutePosterURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return c.client.BaseURL() + raw
}

// Items returns a copy of the full cached collection
func (c *ListController) Items() []models.Media {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Media, len(c.items))
	copy(out, c.items)
	return out
}

// Filtered returns the cache narrowed by the search query and type filter
func (c *ListController) Filtered(query, typeFilter string) []models.Media {
	return FilterMedia(c.Items(), query, typeFilter)
}

// Page returns the current page cursor
func (c *ListController) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// HasMore reports whether further pages remain
func (c *ListController) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Loading reports whether a fetch is in flight
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
