package portal

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"campusportal/internal/model"
	"campusportal/internal/repo"
)

// ViewState holds the two list-view controls: the selected category tab and
// the free-text search box.
type ViewState struct {
	ActiveCategory string
	Query          string
}

// NewViewState normalizes raw control input: empty category means "all", the
// query is trimmed and lower-cased before matching.
func NewViewState(category, query string) ViewState {
	if category == "" {
		category = "all"
	}
	return ViewState{
		ActiveCategory: category,
		Query:          strings.ToLower(strings.TrimSpace(query)),
	}
}

// VisibleEvents derives the rendered card list from the fetched snapshot:
// newest first, keeping events that match the active category and whose
// title+excerpt+content contains the query. An empty result means the page
// shows the no-matches placeholder instead of cards.
func VisibleEvents(events []model.Event, state ViewState) []model.Event {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	repo.SortEventsByDateDesc(sorted)

	visible := make([]model.Event, 0, len(sorted))
	for _, ev := range sorted {
		if state.ActiveCategory != "all" && ev.Category != state.ActiveCategory {
			continue
		}
		if state.Query != "" {
			haystack := strings.ToLower(ev.Title + ev.Excerpt + ev.Content)
			if !strings.Contains(haystack, state.Query) {
				continue
			}
		}
		visible = append(visible, ev)
	}
	return visible
}

// Metrics is the admin dashboard headline row.
type Metrics struct {
	TotalEvents          int
	UpcomingEvents       int
	PendingRegistrations int
}

const upcomingWindow = 7 * 24 * time.Hour

// DashboardMetrics counts all events, events dated within the next seven days
// inclusive, and registrations still waiting for review. Events with
// unparseable dates never count as upcoming.
func DashboardMetrics(events []model.Event, regs []model.Registration, now time.Time) Metrics {
	m := Metrics{TotalEvents: len(events)}
	for _, ev := range events {
		date := repo.ParseEventDate(ev.Date)
		if date.IsZero() {
			continue
		}
		diff := date.Sub(now)
		if diff >= 0 && diff <= upcomingWindow {
			m.UpcomingEvents++
		}
	}
	for _, reg := range regs {
		if statusOrPending(reg.Status) == model.StatusPending {
			m.PendingRegistrations++
		}
	}
	return m
}

// RegistrationMetrics is the moderation view headline row.
type RegistrationMetrics struct {
	Total    int
	Pending  int
	Accepted int
}

func CountRegistrations(regs []model.Registration) RegistrationMetrics {
	m := RegistrationMetrics{Total: len(regs)}
	for _, reg := range regs {
		switch statusOrPending(reg.Status) {
		case model.StatusPending:
			m.Pending++
		case model.StatusAccepted:
			m.Accepted++
		}
	}
	return m
}

// RegistrationFilter holds the moderation view controls. Zero values pass
// everything; EventID is the raw select value ("all" or an event id).
type RegistrationFilter struct {
	Term    string
	Status  string
	EventID string
}

// FilterRegistrations derives the moderation table: newest submissions first,
// narrowed by status, event and a case-insensitive term matched against
// name, email, department and year.
func FilterRegistrations(regs []model.Registration, f RegistrationFilter) []model.Registration {
	term := strings.ToLower(strings.TrimSpace(f.Term))

	sorted := make([]model.Registration, len(regs))
	copy(sorted, regs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	filtered := make([]model.Registration, 0, len(sorted))
	for _, reg := range sorted {
		if f.Status != "" && f.Status != "all" && statusOrPending(reg.Status) != f.Status {
			continue
		}
		if f.EventID != "" && f.EventID != "all" && strconv.Itoa(reg.EventID) != f.EventID {
			continue
		}
		if term != "" {
			haystack := strings.ToLower(reg.Name + " " + reg.Email + " " + reg.Department + " " + reg.Year)
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		filtered = append(filtered, reg)
	}
	return filtered
}

// statusOrPending treats a blank status as pending, matching records written
// before the status field existed.
func statusOrPending(status string) string {
	if status == "" {
		return model.StatusPending
	}
	return status
}
