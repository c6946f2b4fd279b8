package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/types"
)

// ActivityCacheSize is how many entries are kept per user
const ActivityCacheSize = 50

// activityCache holds the newest entries first, per user id
type activityCache struct {
	limit   int
	entries map[uint64][]services.ActivityView
}

func newActivityCache(limit int) *activityCache {
	return &activityCache{limit: limit, entries: map[uint64][]services.ActivityView{}}
}

func (a *activityCache) add(v services.ActivityView) {
	list := append([]services.ActivityView{v}, a.entries[v.UserID]...)
	if len(list) > a.limit {
		list = list[:a.limit]
	}
	a.entries[v.UserID] = list
}

func (a *activityCache) replace(userID uint64, views []services.ActivityView) {
	if len(views) > a.limit {
		views = views[:a.limit]
	}
	a.entries[userID] = slices.Clone(views)
}

func (a *activityCache) get(userID uint64) []services.ActivityView {
	return slices.Clone(a.entries[userID])
}

func (a *activityCache) drop(userID uint64) {
	delete(a.entries, userID)
}

// Activity returns the cached activity for userID, newest first
func (c *Client) Activity(userID uint64) []services.ActivityView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activity.get(userID)
}

// RefreshActivity replaces the cached activity for userID with the server's
// newest entries. The cache is kept when the request fails.
func (c *Client) RefreshActivity(ctx context.Context, userID uint64) ([]services.ActivityView, error) {
	query := url.Values{"limit": {strconv.Itoa(ActivityCacheSize)}}
	if userID != 0 {
		query.Set("user_id", strconv.FormatUint(userID, 10))
	}

	var views []services.ActivityView
	if err := c.do(ctx, http.MethodGet, "/api/activity", query, nil, &views); err != nil {
		return c.Activity(userID), err
	}
	if userID == 0 {
		if me := c.User(); me != nil {
			userID = me.ID
		}
	}

	c.mu.Lock()
	c.activity.replace(userID, views)
	c.mu.Unlock()
	return c.Activity(userID), nil
}

// LogActivity records an entry locally and sends it to the server. Entries
// that cannot be sent are queued for FlushActivity.
func (c *Client) LogActivity(ctx context.Context, entry services.ActivityEntry) error {
	if entry.UserID == 0 {
		if me := c.User(); me != nil {
			entry.UserID = types.FlexUint64(me.ID)
		}
	}
	c.cache(entry)

	if err := c.do(ctx, http.MethodPost, "/api/activity", nil, entry, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return err
		}
		c.mu.Lock()
		c.pending = append(c.pending, entry)
		c.mu.Unlock()
		return err
	}
	return nil
}

// PendingActivity reports how many entries are waiting to be sent
func (c *Client) PendingActivity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pending)
}

// FlushActivity sends every queued entry in one request
func (c *Client) FlushActivity(ctx context.Context) error {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	if err := c.do(ctx, http.MethodPost, "/api/activity", nil, batch, nil); err != nil {
		c.mu.Lock()
		c.pending = append(batch, c.pending...)
		c.mu.Unlock()
		return err
	}
	return nil
}

// remember caches an entry for a mutation the server has already logged
func (c *Client) remember(taskID uint64, action, description string) {
	me := c.User()
	if me == nil {
		return
	}
	entry := services.ActivityEntry{
		UserID:      types.FlexUint64(me.ID),
		TaskID:      types.FlexUint64(taskID),
		ActionType:  action,
		Description: description,
	}
	c.cache(entry)
}

func (c *Client) cache(e services.ActivityEntry) {
	v := services.ActivityView{
		UserID:      e.UserID.Uint64(),
		TaskID:      e.TaskID.Ptr(),
		ActionType:  e.ActionType,
		Description: e.Description,
		CreatedAt:   time.Now(),
	}
	if me := c.User(); me != nil && me.ID == v.UserID {
		v.Username = me.Username
	}

	c.mu.Lock()
	c.activity.add(v)
	c.mu.Unlock()
}
