package repo

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"campusportal/internal/model"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrInvalidStatus        = errors.New("invalid status value")
	ErrAccountExists        = errors.New("account already exists")
	ErrAccountNotFound      = errors.New("account not found")
)

// EventStore is the persistence and query unit for events.
type EventStore interface {
	List(category, query string) []model.Event
	Get(id int) (*model.Event, error)
	Create(e *model.Event) *model.Event
	Delete(id int) error
}

type eventStore struct {
	path string
	log  *zerolog.Logger
}

// NewEventStore returns a store backed by a single JSON array file under dir.
func NewEventStore(dir string, log *zerolog.Logger) EventStore {
	return &eventStore{path: filepath.Join(dir, "events.json"), log: log}
}

func (s *eventStore) load() []model.Event {
	var events []model.Event
	if err := readCollection(s.path, &events); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error().Err(err).Msg("failed to read events file")
		}
		return []model.Event{}
	}
	return events
}

func (s *eventStore) save(events []model.Event) {
	if err := writeCollection(s.path, events); err != nil {
		s.log.Error().Err(err).Msg("failed to persist events")
	}
}

// List returns events matching the category (exact match against the stored
// lower-cased value; empty or "all" matches everything) and the search query
// (case-insensitive substring over title, excerpt and content), sorted
// descending by date. No pagination.
func (s *eventStore) List(category, query string) []model.Event {
	events := s.load()
	q := strings.ToLower(query)

	filtered := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if category != "" && category != "all" && ev.Category != category {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(ev.Title + " " + ev.Excerpt + " " + ev.Content)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		filtered = append(filtered, ev)
	}

	SortEventsByDateDesc(filtered)
	return filtered
}

func (s *eventStore) Get(id int) (*model.Event, error) {
	for _, ev := range s.load() {
		if ev.ID == id {
			return &ev, nil
		}
	}
	return nil, ErrEventNotFound
}

// Create assigns the next id as max(existing)+1, appends and persists.
// The caller is expected to hand in an already-normalized event.
func (s *eventStore) Create(e *model.Event) *model.Event {
	events := s.load()
	next := 0
	for _, ev := range events {
		if ev.ID > next {
			next = ev.ID
		}
	}
	e.ID = next + 1
	events = append(events, *e)
	s.save(events)
	return e
}

// Delete removes the event and persists. Registrations referencing the event
// are left in place; the portal tolerates dangling eventIds.
func (s *eventStore) Delete(id int) error {
	events := s.load()
	kept := make([]model.Event, 0, len(events))
	found := false
	for _, ev := range events {
		if ev.ID == id {
			found = true
			continue
		}
		kept = append(kept, ev)
	}
	if !found {
		return ErrEventNotFound
	}
	s.save(kept)
	return nil
}

// SortEventsByDateDesc orders newest-first. Unparseable dates sort as the zero
// time, which places them last; the sort is stable so well-formed data keeps
// its relative order under equal dates.
func SortEventsByDateDesc(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return ParseEventDate(events[i].Date).After(ParseEventDate(events[j].Date))
	})
}

var eventDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04"}

// ParseEventDate interprets the stored free-text date field. Events carry
// dates as strings; anything unrecognized comes back as the zero time.
func ParseEventDate(value string) time.Time {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
