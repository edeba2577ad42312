package profilemem

import (
	"context"
	"sync"

	"walletlink/internal/domain"
	"walletlink/internal/usecase"
)

// Store is an in-memory ProfileStore over personas and accounts, used in
// tests and when the service runs without a database.
type Store struct {
	mu       sync.Mutex
	personas map[domain.IdentityAddress]domain.Persona
	accounts map[domain.AccountAddress]domain.Account
}

func New() *Store {
	return &Store{
		personas: make(map[domain.IdentityAddress]domain.Persona),
		accounts: make(map[domain.AccountAddress]domain.Account),
	}
}

func (s *Store) GetCurrentPersona(_ context.Context, address domain.IdentityAddress) (*domain.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	persona, ok := s.personas[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := persona
	copied.Data = domain.PersonaData{
		Entries: append([]domain.PersonaDataEntry(nil), persona.Data.Entries...),
	}
	return &copied, nil
}

func (s *Store) GetCurrentAccount(_ context.Context, address domain.AccountAddress) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (s *Store) PutPersona(persona domain.Persona) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personas[persona.Address] = persona
}

func (s *Store) DeletePersona(address domain.IdentityAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.personas, address)
}

func (s *Store) PutAccount(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Address] = account
}

func (s *Store) DeleteAccount(address domain.AccountAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, address)
}

var _ usecase.ProfileStore = (*Store)(nil)
