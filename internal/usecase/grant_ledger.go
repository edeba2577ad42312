package usecase

import (
	"context"
	"time"

	"walletlink/internal/domain"
)

// GrantLedger is the read/query model over previously authorized dApps, plus
// the last-login writer. The quantifier compatibility rule is delegated to
// the configured GrantPolicy.
type GrantLedger struct {
	Store    AuthorizationStore
	Profiles ProfileStore
	Policy   GrantPolicy
}

func (l *GrantLedger) LookupDapp(ctx context.Context, address domain.AccountAddress) (*domain.AuthorizedDapp, error) {
	return l.Store.GetAuthorizedDapp(ctx, address)
}

// GrantedAccountAddresses returns the account addresses previously shared by
// the persona with the dApp, provided the stored grant is compatible with the
// requested shape. An empty slice means no compatible grant exists.
func (l *GrantLedger) GrantedAccountAddresses(
	ctx context.Context,
	dapp domain.AccountAddress,
	persona domain.IdentityAddress,
	requested domain.NumberOfValues,
) ([]domain.AccountAddress, error) {
	record, err := l.Store.GetAuthorizedDapp(ctx, dapp)
	if err != nil {
		return nil, err
	}
	ref := record.PersonaByAddress(persona)
	if ref == nil || ref.SharedAccounts == nil {
		return nil, nil
	}
	shared := ref.SharedAccounts
	allowed, err := l.Policy.Allows(ctx, shared.Request, len(shared.IDs), requested)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, nil
	}
	ids := shared.IDs
	// An "exactly n" request served from a larger grant takes the first n
	// addresses in stored order, so repeated requests see the same set.
	if requested.Quantifier == domain.QuantifierExactly && len(ids) > requested.Quantity {
		ids = ids[:requested.Quantity]
	}
	out := make([]domain.AccountAddress, len(ids))
	copy(out, ids)
	return out, nil
}

// HasAllDataFields reports whether every required field kind is covered by
// the persona's granted entries with at least the required quantity. Granted
// entry ids are classified against the live persona's data, so entries the
// user has since deleted no longer count.
func (l *GrantLedger) HasAllDataFields(
	ctx context.Context,
	dapp domain.AccountAddress,
	persona domain.IdentityAddress,
	required []domain.RequiredField,
) (bool, error) {
	record, err := l.Store.GetAuthorizedDapp(ctx, dapp)
	if err != nil {
		return false, err
	}
	ref := record.PersonaByAddress(persona)
	if ref == nil {
		return false, nil
	}
	live, err := l.Profiles.GetCurrentPersona(ctx, persona)
	if err != nil {
		return false, err
	}

	remaining := make(map[domain.FieldKind]int, len(required))
	for _, field := range required {
		remaining[field.Kind] = field.NumberOfValues.Quantity
	}
	for _, entryID := range ref.SharedPersonaData.EntryIDs {
		kind := live.Data.KindOf(entryID)
		if kind == "" {
			continue
		}
		if count, ok := remaining[kind]; ok {
			if count > 1 {
				remaining[kind] = count - 1
			} else {
				delete(remaining, kind)
			}
		}
	}
	return len(remaining) == 0, nil
}

// BumpLastLogin is the pure transform behind the grant ledger writer: it
// replaces the matching persona's last-login timestamp and nothing else.
func (l *GrantLedger) BumpLastLogin(dapp domain.AuthorizedDapp, persona domain.IdentityAddress, now time.Time) domain.AuthorizedDapp {
	return dapp.WithLastLogin(persona, now)
}

// PersistLastLogin bumps the timestamp and writes the record back.
func (l *GrantLedger) PersistLastLogin(
	ctx context.Context,
	dapp domain.AuthorizedDapp,
	persona domain.IdentityAddress,
	now time.Time,
) (domain.AuthorizedDapp, error) {
	updated := l.BumpLastLogin(dapp, persona, now)
	if err := l.Store.PutAuthorizedDapp(ctx, updated); err != nil {
		return domain.AuthorizedDapp{}, err
	}
	return updated, nil
}
