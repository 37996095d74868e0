package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"campusportal/internal/model"
)

// AccountStore is the typed repository behind portal sign-up and login. It
// replaces the browser-local account collection of the original portal with
// the same one-file mechanics as the other stores.
type AccountStore interface {
	GetByEmail(email string) (*model.Account, error)
	Create(acc *model.Account) error
	Update(acc *model.Account) (*model.Account, error)
}

type accountStore struct {
	path string
	log  *zerolog.Logger
}

// NewAccountStore returns a store backed by a single JSON array file under dir.
func NewAccountStore(dir string, log *zerolog.Logger) AccountStore {
	return &accountStore{path: filepath.Join(dir, "accounts.json"), log: log}
}

func (s *accountStore) load() []model.Account {
	var accounts []model.Account
	if err := readCollection(s.path, &accounts); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error().Err(err).Msg("failed to read accounts file")
		}
		return []model.Account{}
	}
	return accounts
}

func (s *accountStore) save(accounts []model.Account) {
	if err := writeCollection(s.path, accounts); err != nil {
		s.log.Error().Err(err).Msg("failed to persist accounts")
	}
}

func (s *accountStore) GetByEmail(email string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, acc := range s.load() {
		if acc.Email == email {
			return &acc, nil
		}
	}
	return nil, ErrAccountNotFound
}

// Create appends the account. Email is the unique key; a second signup with
// the same address fails with ErrAccountExists.
func (s *accountStore) Create(acc *model.Account) error {
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	accounts := s.load()
	for _, existing := range accounts {
		if existing.Email == acc.Email {
			return ErrAccountExists
		}
	}
	s.save(append(accounts, *acc))
	return nil
}

// Update replaces the stored account with the same email.
func (s *accountStore) Update(acc *model.Account) (*model.Account, error) {
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	accounts := s.load()
	for i := range accounts {
		if accounts[i].Email == acc.Email {
			accounts[i] = *acc
			s.save(accounts)
			return &accounts[i], nil
		}
	}
	return nil, ErrAccountNotFound
}
