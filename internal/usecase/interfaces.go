package usecase

import (
	"context"

	"walletlink/internal/domain"
)

// AuthorizationStore persists per-dApp authorization records. Lookup misses
// are reported as domain.ErrNotFound.
type AuthorizationStore interface {
	GetAuthorizedDapp(ctx context.Context, address domain.AccountAddress) (*domain.AuthorizedDapp, error)
	PutAuthorizedDapp(ctx context.Context, dapp domain.AuthorizedDapp) error
}

// ProfileStore reads the current committed profile snapshot. Implementations
// must not cache across requests; a persona deleted between two requests has
// to come back as domain.ErrNotFound on the second one.
type ProfileStore interface {
	GetCurrentPersona(ctx context.Context, address domain.IdentityAddress) (*domain.Persona, error)
	GetCurrentAccount(ctx context.Context, address domain.AccountAddress) (*domain.Account, error)
}

// ResponseChannel delivers wire responses back to the dApp.
type ResponseChannel interface {
	SendSuccess(ctx context.Context, response domain.SuccessResponse) error
	SendFailure(ctx context.Context, response domain.FailureResponse) error
}

// GrantPolicy decides whether a stored account grant is compatible with what
// a request now asks for. StoredCount is the number of addresses actually
// held by the grant, which may exceed the stored request's quantity.
type GrantPolicy interface {
	Allows(ctx context.Context, stored domain.NumberOfValues, storedCount int, requested domain.NumberOfValues) (bool, error)
}

// InteractionGuard serializes silent-authorization attempts per
// (dApp, interaction) pair. Acquire returns false when the same interaction
// is already in flight.
type InteractionGuard interface {
	Acquire(ctx context.Context, dapp domain.AccountAddress, interaction domain.InteractionID) (bool, error)
	Release(ctx context.Context, dapp domain.AccountAddress, interaction domain.InteractionID) error
}
