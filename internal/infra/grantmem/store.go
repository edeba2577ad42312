package grantmem

import (
	"context"
	"sync"

	"walletlink/internal/domain"
	"walletlink/internal/usecase"
)

// Store is an in-memory AuthorizationStore, used in tests and when the
// service runs without a database.
type Store struct {
	mu    sync.Mutex
	dapps map[domain.AccountAddress]domain.AuthorizedDapp
}

func New() *Store {
	return &Store{
		dapps: make(map[domain.AccountAddress]domain.AuthorizedDapp),
	}
}

func (s *Store) GetAuthorizedDapp(_ context.Context, address domain.AccountAddress) (*domain.AuthorizedDapp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dapp, ok := s.dapps[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := copyDapp(dapp)
	return &copied, nil
}

func (s *Store) PutAuthorizedDapp(_ context.Context, dapp domain.AuthorizedDapp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dapps[dapp.DappDefinitionAddress] = copyDapp(dapp)
	return nil
}

// copyDapp detaches shared slices so callers cannot mutate stored state.
func copyDapp(dapp domain.AuthorizedDapp) domain.AuthorizedDapp {
	personas := make([]domain.AuthorizedPersonaSimple, len(dapp.Personas))
	for i, persona := range dapp.Personas {
		copied := persona
		if persona.SharedAccounts != nil {
			shared := domain.SharedAccounts{
				Request: persona.SharedAccounts.Request,
				IDs:     append([]domain.AccountAddress(nil), persona.SharedAccounts.IDs...),
			}
			copied.SharedAccounts = &shared
		}
		copied.SharedPersonaData = domain.SharedPersonaData{
			EntryIDs: append([]domain.PersonaDataEntryID(nil), persona.SharedPersonaData.EntryIDs...),
		}
		personas[i] = copied
	}
	dapp.Personas = personas
	return dapp
}

var _ usecase.AuthorizationStore = (*Store)(nil)
