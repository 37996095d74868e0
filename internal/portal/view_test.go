package portal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusportal/internal/model"
)

func TestNewViewStateNormalizes(t *testing.T) {
	state := NewViewState("", "  Robotics ")
	assert.Equal(t, "all", state.ActiveCategory)
	assert.Equal(t, "robotics", state.Query)

	state = NewViewState("tech", "")
	assert.Equal(t, "tech", state.ActiveCategory)
	assert.Empty(t, state.Query)
}

func TestVisibleEventsFiltersAndSorts(t *testing.T) {
	events := []model.Event{
		{Title: "Old Talk", Category: "tech", Date: "2026-09-01", Excerpt: "intro", Content: "robotics basics"},
		{Title: "Fest", Category: "campus", Date: "2026-09-05", Excerpt: "music", Content: "stalls"},
		{Title: "Expo", Category: "tech", Date: "2026-09-09", Excerpt: "demos", Content: "drones"},
	}

	visible := VisibleEvents(events, NewViewState("tech", ""))
	require.Len(t, visible, 2)
	assert.Equal(t, "Expo", visible[0].Title)
	assert.Equal(t, "Old Talk", visible[1].Title)

	visible = VisibleEvents(events, NewViewState("all", "robotics"))
	require.Len(t, visible, 1)
	assert.Equal(t, "Old Talk", visible[0].Title)

	assert.Empty(t, VisibleEvents(events, NewViewState("sports", "")))
	// The input slice is never reordered.
	assert.Equal(t, "Old Talk", events[0].Title)
}

func TestVisibleEventsMatchesAcrossFieldBoundaries(t *testing.T) {
	// Title, excerpt and content are joined without separators, so a query
	// can straddle the seam between two fields.
	events := []model.Event{
		{Title: "Robo", Category: "tech", Date: "2026-09-01", Excerpt: "tics lab", Content: ""},
	}
	visible := VisibleEvents(events, NewViewState("all", "robotics"))
	assert.Len(t, visible, 1)
}

func TestDashboardMetrics(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	events := []model.Event{
		{Title: "Today", Date: "2026-09-01"},
		{Title: "Within Week", Date: "2026-09-08"},
		{Title: "Too Far", Date: "2026-09-09"},
		{Title: "Past", Date: "2026-08-31"},
		{Title: "Undated", Date: "someday"},
	}
	regs := []model.Registration{
		{Status: model.StatusPending},
		{Status: ""},
		{Status: model.StatusAccepted},
	}

	m := DashboardMetrics(events, regs, now)
	assert.Equal(t, 5, m.TotalEvents)
	assert.Equal(t, 2, m.UpcomingEvents)
	assert.Equal(t, 2, m.PendingRegistrations)
}

func TestCountRegistrations(t *testing.T) {
	regs := []model.Registration{
		{Status: model.StatusPending},
		{Status: ""},
		{Status: model.StatusAccepted},
		{Status: model.StatusRejected},
	}
	m := CountRegistrations(regs)
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 2, m.Pending)
	assert.Equal(t, 1, m.Accepted)
}

func TestFilterRegistrations(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	regs := []model.Registration{
		{ID: 1, EventID: 1, Name: "Asha", Email: "asha@x.com", Department: "CSE", Year: "3", Status: model.StatusPending, CreatedAt: base},
		{ID: 2, EventID: 2, Name: "Ravi", Email: "ravi@x.com", Department: "ECE", Year: "2", Status: model.StatusAccepted, CreatedAt: base.Add(time.Hour)},
		{ID: 3, EventID: 1, Name: "Meera", Email: "meera@x.com", Department: "CSE", Year: "4", Status: "", CreatedAt: base.Add(2 * time.Hour)},
	}

	all := FilterRegistrations(regs, RegistrationFilter{Status: "all", EventID: "all"})
	require.Len(t, all, 3)
	// Newest submission first.
	assert.Equal(t, int64(3), all[0].ID)
	assert.Equal(t, int64(1), all[2].ID)

	// Blank status counts as pending.
	pending := FilterRegistrations(regs, RegistrationFilter{Status: "pending"})
	require.Len(t, pending, 2)

	byEvent := FilterRegistrations(regs, RegistrationFilter{EventID: "1"})
	assert.Len(t, byEvent, 2)

	byTerm := FilterRegistrations(regs, RegistrationFilter{Term: "  ECE "})
	require.Len(t, byTerm, 1)
	assert.Equal(t, "Ravi", byTerm[0].Name)

	assert.Empty(t, FilterRegistrations(regs, RegistrationFilter{Term: "nobody"}))
}
