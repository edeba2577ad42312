package usecase

import (
	"context"
	"errors"
	"time"

	"walletlink/internal/domain"
)

type SilentAuthOutcome int

const (
	// OutcomeNotApplicable tells the caller to run the interactive consent
	// flow. Not an error.
	OutcomeNotApplicable SilentAuthOutcome = iota

	// OutcomeAuthorized means the request was satisfied silently and the
	// success response has been sent.
	OutcomeAuthorized

	// OutcomeFailed means the interaction is terminally broken; a wire
	// failure response has been sent and the caller must not retry silently.
	OutcomeFailed
)

type SilentAuthResult struct {
	Outcome   SilentAuthOutcome
	DappName  string
	ErrorKind domain.ErrorKind
}

// SilentAuthorize decides whether a dApp authorization request can be
// satisfied from prior grants without showing any consent UI, and if so sends
// the success response and bumps the persona's last login.
//
// Silent approval is attempted only for UsePersona requests whose items are
// exclusively ongoing ones: no challenge anywhere, no reset flags, no
// one-time items, not relayed over the remote bridge.
type SilentAuthorize struct {
	Ledger   *GrantLedger
	Profiles ProfileStore
	Builder  *ResponseBuilder
	Guard    InteractionGuard
	Now      func() time.Time
}

func (uc *SilentAuthorize) Execute(
	ctx context.Context,
	request domain.AuthorizationRequest,
	responder ResponseChannel,
) (SilentAuthResult, error) {
	notApplicable := SilentAuthResult{Outcome: OutcomeNotApplicable}

	authRequest, ok := request.(*domain.AuthorizedRequest)
	if !ok {
		return notApplicable, nil
	}
	usePersona, ok := authRequest.Auth.(domain.UsePersona)
	if !ok {
		return notApplicable, nil
	}

	dappAddress := authRequest.Metadata.DappDefinitionAddress
	if uc.Guard != nil {
		acquired, err := uc.Guard.Acquire(ctx, dappAddress, authRequest.InteractionID)
		if err != nil {
			return SilentAuthResult{}, err
		}
		if !acquired {
			return notApplicable, nil
		}
		defer func() {
			_ = uc.Guard.Release(context.WithoutCancel(ctx), dappAddress, authRequest.InteractionID)
		}()
	}

	dapp, err := uc.Ledger.LookupDapp(ctx, dappAddress)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uc.failInvalidPersona(ctx, authRequest, responder)
		}
		return SilentAuthResult{}, err
	}

	if authRequest.NeedsSignatures() || authRequest.RemoteBridge {
		return notApplicable, nil
	}

	personaRef := dapp.PersonaByAddress(usePersona.IdentityAddress)
	if personaRef == nil {
		return uc.failInvalidPersona(ctx, authRequest, responder)
	}

	persona, err := uc.Profiles.GetCurrentPersona(ctx, personaRef.IdentityAddress)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uc.failInvalidPersona(ctx, authRequest, responder)
		}
		return SilentAuthResult{}, err
	}

	if !authRequest.HasOngoingItemsOnly() {
		return notApplicable, nil
	}

	grant := domain.ResolvedGrant{Persona: *persona}

	if item := authRequest.OngoingAccounts; item != nil {
		accounts, ok, err := uc.resolveOngoingAccounts(ctx, dappAddress, persona.Address, item)
		if err != nil {
			return SilentAuthResult{}, err
		}
		if !ok {
			return notApplicable, nil
		}
		grant.OngoingAccounts = accounts
	}

	if item := authRequest.OngoingPersonaData; item != nil {
		granted, err := uc.Ledger.HasAllDataFields(ctx, dappAddress, persona.Address, item.RequiredFields)
		if err != nil {
			return SilentAuthResult{}, err
		}
		if !granted {
			return notApplicable, nil
		}
		snapshot := grantedDataSnapshot(persona.Data, item.RequiredFields)
		grant.OngoingPersonaData = &snapshot
	}

	response, err := uc.Builder.BuildAuthorizedResponse(authRequest, grant)
	if err != nil {
		return SilentAuthResult{}, err
	}

	// A cancelled caller must observe either the full success path or no
	// ledger mutation at all.
	if err := ctx.Err(); err != nil {
		return SilentAuthResult{}, err
	}
	if err := responder.SendSuccess(ctx, response); err != nil {
		return SilentAuthResult{}, err
	}
	if _, err := uc.Ledger.PersistLastLogin(ctx, *dapp, persona.Address, uc.Now()); err != nil {
		return SilentAuthResult{}, err
	}

	return SilentAuthResult{
		Outcome:  OutcomeAuthorized,
		DappName: dapp.DisplayName,
	}, nil
}

// resolveOngoingAccounts resolves the previously granted addresses into live
// accounts. Partial resolution is never surfaced: a single deleted account
// sends the whole request to the interactive flow.
func (uc *SilentAuthorize) resolveOngoingAccounts(
	ctx context.Context,
	dapp domain.AccountAddress,
	persona domain.IdentityAddress,
	item *domain.AccountsRequestItem,
) ([]domain.AccountWithSignature, bool, error) {
	addresses, err := uc.Ledger.GrantedAccountAddresses(ctx, dapp, persona, item.NumberOfAccounts)
	if err != nil {
		return nil, false, err
	}
	if len(addresses) == 0 {
		return nil, false, nil
	}
	accounts := make([]domain.AccountWithSignature, 0, len(addresses))
	for _, address := range addresses {
		account, err := uc.Profiles.GetCurrentAccount(ctx, address)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		accounts = append(accounts, domain.AccountWithSignature{Account: *account})
	}
	return accounts, true, nil
}

func (uc *SilentAuthorize) failInvalidPersona(
	ctx context.Context,
	request *domain.AuthorizedRequest,
	responder ResponseChannel,
) (SilentAuthResult, error) {
	failure := uc.Builder.BuildFailureResponse(request, domain.ErrorKindInvalidPersona)
	if err := responder.SendFailure(ctx, failure); err != nil {
		return SilentAuthResult{}, err
	}
	return SilentAuthResult{
		Outcome:   OutcomeFailed,
		ErrorKind: domain.ErrorKindInvalidPersona,
	}, nil
}

// grantedDataSnapshot extracts the persona's field values for exactly the
// requested field kinds, in required-field order. "Exactly n" requirements
// cap the entries per kind so the snapshot matches the requested shape.
func grantedDataSnapshot(data domain.PersonaData, required []domain.RequiredField) domain.PersonaData {
	var entries []domain.PersonaDataEntry
	for _, field := range required {
		ofKind := data.EntriesOfKind(field.Kind)
		if field.NumberOfValues.Quantifier == domain.QuantifierExactly && len(ofKind) > field.NumberOfValues.Quantity {
			ofKind = ofKind[:field.NumberOfValues.Quantity]
		}
		entries = append(entries, ofKind...)
	}
	return domain.PersonaData{Entries: entries}
}
