package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/api"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/query"
)

// Freshness windows. The session check tolerates short staleness; the
// user directory changes rarely; notifications poll on a fixed interval
// as a fallback for missed realtime events.
const (
	meStaleTime    = 30 * time.Second
	usersStaleTime = 60 * time.Second
)

// cacheEventMsg wraps a settled cache fetch for the Bubble Tea loop.
type cacheEventMsg struct {
	Key query.Key
}

// querySpec binds a cache key to its fetcher and freshness options.
type querySpec struct {
	key   query.Key
	fetch query.Fetcher
	opts  query.Options
}

// specs returns the queries the current screen needs observed. The
// session query runs during boot and stays observed while logged in;
// notifications and the user directory are observed for every
// authenticated screen so the unread badge and assignee options are
// warm before their views open.
func (m *Model) specs() []querySpec {
	if m.booting {
		return []querySpec{m.meSpec()}
	}
	if m.user == nil {
		return nil
	}

	out := []querySpec{m.meSpec(), m.usersSpec(), m.notificationsSpec()}

	switch m.view {
	case ViewDashboard:
		out = append(out, m.dashboardSpec())
	case ViewTasks, ViewTaskForm:
		out = append(out, m.tasksSpec())
	}
	return out
}

func (m *Model) meSpec() querySpec {
	client := m.client
	return querySpec{
		key: query.NewKey(query.KeyMe, nil),
		fetch: func(ctx context.Context) (interface{}, error) {
			u, err := client.Me(ctx)
			return u, err
		},
		opts: query.Options{StaleTime: meStaleTime},
	}
}

func (m *Model) usersSpec() querySpec {
	client := m.client
	return querySpec{
		key: query.NewKey(query.KeyUsers, nil),
		fetch: func(ctx context.Context) (interface{}, error) {
			us, err := client.ListUsers(ctx)
			return us, err
		},
		opts: query.Options{StaleTime: usersStaleTime},
	}
}

func (m *Model) dashboardSpec() querySpec {
	client := m.client
	return querySpec{
		key: query.NewKey(query.KeyDashboard, nil),
		fetch: func(ctx context.Context) (interface{}, error) {
			d, err := client.Dashboard(ctx)
			return d, err
		},
	}
}

func (m *Model) tasksSpec() querySpec {
	client := m.client
	filter := m.listView.Filter()
	return querySpec{
		key: m.tasksKey(),
		fetch: func(ctx context.Context) (interface{}, error) {
			ts, err := client.ListTasks(ctx, filter)
			return ts, err
		},
	}
}

func (m *Model) notificationsSpec() querySpec {
	client := m.client
	return querySpec{
		key: query.NewKey(query.KeyNotifications, nil),
		fetch: func(ctx context.Context) (interface{}, error) {
			ns, err := client.ListNotifications(ctx)
			return ns, err
		},
		opts: query.Options{RefetchInterval: m.notificationPoll},
	}
}

// tasksKey derives the cache key for the list view's current filter.
func (m *Model) tasksKey() query.Key {
	f := m.listView.Filter()
	return query.NewKey(query.KeyTasks, map[string]string{
		"status":      string(f.Status),
		"priority":    string(f.Priority),
		"sortDueDate": f.SortDueDate,
	})
}

// reconcileObservations diffs the wanted query set against the
// currently observed one, observing and unobserving as needed. Newly
// observed keys push their cached snapshot into the views immediately;
// fetch results arrive later as cache events.
func (m *Model) reconcileObservations() tea.Cmd {
	var cmds []tea.Cmd
	next := make(map[query.Key]bool)

	for _, sp := range m.specs() {
		next[sp.key] = true
		if m.observed[sp.key] {
			continue
		}
		res := m.cache.Observe(sp.key, sp.fetch, sp.opts)
		m.observed[sp.key] = true
		if cmd := m.push(sp.key, res); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	for k := range m.observed {
		if !next[k] {
			m.cache.Unobserve(k)
			delete(m.observed, k)
		}
	}

	return tea.Batch(cmds...)
}

// push delivers a cache snapshot to the view that renders it.
func (m *Model) push(k query.Key, res query.Result) tea.Cmd {
	switch k.Op() {
	case query.KeyMe:
		if u, ok := res.Data.(*model.User); ok && res.Err == nil {
			m.user = u
		}

	case query.KeyUsers:
		if us, ok := res.Data.([]model.User); ok {
			m.formView.SetUsers(us)
		}

	case query.KeyTasks:
		// A slot for a previously active filter may still settle; only
		// the current filter's snapshot reaches the list.
		if k != m.tasksKey() {
			return nil
		}
		if res.IsError() {
			m.listView.SetError(api.ErrorMessage(res.Err, "failed to load tasks"))
			return nil
		}
		if res.IsLoading() {
			m.listView.SetLoading(true)
			return nil
		}
		if ts, ok := res.Data.([]model.Task); ok {
			return m.listView.SetTasks(ts)
		}

	case query.KeyDashboard:
		if res.IsError() {
			m.dashView.SetError(api.ErrorMessage(res.Err, "failed to load dashboard"))
			return nil
		}
		if res.IsLoading() {
			m.dashView.SetLoading(true)
			return nil
		}
		if d, ok := res.Data.(*model.Dashboard); ok {
			m.dashView.SetData(d)
		}

	case query.KeyNotifications:
		if res.IsError() {
			m.noteView.SetError(api.ErrorMessage(res.Err, "failed to load notifications"))
			return nil
		}
		if ns, ok := res.Data.([]model.Notification); ok {
			m.noteView.SetNotifications(ns)
			m.unread = model.UnreadCount(ns)
		}
	}
	return nil
}

// refreshCurrent invalidates the queries behind the active screen.
func (m *Model) refreshCurrent() {
	switch m.view {
	case ViewDashboard:
		m.cache.Invalidate(query.KeyDashboard)
	case ViewTasks, ViewTaskForm:
		m.cache.Invalidate(query.KeyTasks)
	case ViewNotifications:
		m.cache.Invalidate(query.KeyNotifications)
	case ViewProfile:
		m.cache.Invalidate(query.KeyMe)
	}
}

// waitForCacheEvent blocks on the next settled fetch and re-arms after
// each delivery.
func (m Model) waitForCacheEvent() tea.Cmd {
	events := m.cache.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return cacheEventMsg{Key: ev.Key}
	}
}
