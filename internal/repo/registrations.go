package repo

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"campusportal/internal/model"
)

// RegistrationStore is the persistence and query unit for registrations.
type RegistrationStore interface {
	// List returns every registration, or only those for one event when
	// eventID is positive.
	List(eventID int) []model.Registration
	Get(id int64) (*model.Registration, error)
	Create(reg *model.Registration) *model.Registration
	UpdateStatus(id int64, status string) (*model.Registration, error)
}

type registrationStore struct {
	path string
	log  *zerolog.Logger
	now  func() time.Time
}

// NewRegistrationStore returns a store backed by a single JSON array file
// under dir.
func NewRegistrationStore(dir string, log *zerolog.Logger) RegistrationStore {
	return &registrationStore{
		path: filepath.Join(dir, "registrations.json"),
		log:  log,
		now:  time.Now,
	}
}

func (s *registrationStore) load() []model.Registration {
	var regs []model.Registration
	if err := readCollection(s.path, &regs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error().Err(err).Msg("failed to read registrations file")
		}
		return []model.Registration{}
	}
	return regs
}

func (s *registrationStore) save(regs []model.Registration) {
	if err := writeCollection(s.path, regs); err != nil {
		s.log.Error().Err(err).Msg("failed to persist registrations")
	}
}

func (s *registrationStore) List(eventID int) []model.Registration {
	regs := s.load()
	if eventID <= 0 {
		return regs
	}
	filtered := make([]model.Registration, 0, len(regs))
	for _, reg := range regs {
		if reg.EventID == eventID {
			filtered = append(filtered, reg)
		}
	}
	return filtered
}

// Get returns the first registration with the given id. Under a same-
// millisecond id collision the earlier record wins here, shadowing the later.
func (s *registrationStore) Get(id int64) (*model.Registration, error) {
	for _, reg := range s.load() {
		if reg.ID == id {
			return &reg, nil
		}
	}
	return nil, ErrRegistrationNotFound
}

// Create stamps the record and appends it. The id is the creation time in
// Unix milliseconds: two registrations landing in the same millisecond share
// an id and the later one shadows the first on lookup. That collision is a
// documented property of the system, kept as-is.
func (s *registrationStore) Create(reg *model.Registration) *model.Registration {
	now := s.now()
	reg.ID = now.UnixMilli()
	reg.Status = model.StatusPending
	reg.CreatedAt = now
	reg.UpdatedAt = now

	regs := append(s.load(), *reg)
	s.save(regs)
	return reg
}

// UpdateStatus overwrites the status and refreshes updatedAt. Any transition
// within the allowed set is legal; accepted can go back to pending.
func (s *registrationStore) UpdateStatus(id int64, status string) (*model.Registration, error) {
	switch status {
	case model.StatusPending, model.StatusAccepted, model.StatusRejected:
	default:
		return nil, ErrInvalidStatus
	}

	regs := s.load()
	for i := range regs {
		if regs[i].ID == id {
			regs[i].Status = status
			regs[i].UpdatedAt = s.now()
			s.save(regs)
			return &regs[i], nil
		}
	}
	return nil, ErrRegistrationNotFound
}
