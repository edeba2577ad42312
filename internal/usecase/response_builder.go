package usecase

import (
	"walletlink/internal/domain"
)

// ResponseBuilder assembles dApp-facing wire responses from a resolved grant.
// The success response structurally mirrors the request: same auth variant,
// accounts items only for non-empty account sets, persona data items only for
// non-nil snapshots.
type ResponseBuilder struct{}

// BuildAuthorizedResponse builds the success response for an authorized
// request. It fails with domain.ErrMissingChallengeProof when the request
// logged in with a challenge but the grant carries no persona signature; it
// never downgrades the auth variant instead.
func (b *ResponseBuilder) BuildAuthorizedResponse(
	request *domain.AuthorizedRequest,
	grant domain.ResolvedGrant,
) (domain.SuccessResponse, error) {
	persona := domain.ResponsePersona{
		IdentityAddress: grant.Persona.Address,
		Label:           grant.Persona.Label,
	}

	var auth domain.AuthResponseItem
	switch item := request.Auth.(type) {
	case domain.LoginWithChallenge:
		if grant.PersonaSignature == nil {
			return domain.SuccessResponse{}, domain.ErrMissingChallengeProof
		}
		auth = domain.AuthLoginWithChallengeItem{
			Persona:   persona,
			Challenge: item.Challenge,
			Proof:     grant.PersonaSignature.Proof(),
		}
	case domain.LoginWithoutChallenge:
		auth = domain.AuthLoginWithoutChallengeItem{Persona: persona}
	case domain.UsePersona:
		auth = domain.AuthUsePersonaItem{Persona: persona}
	}

	items := domain.AuthorizedResponseItems{
		Auth:               auth,
		OneTimeAccounts:    buildAccountsItem(grant.OneTimeAccounts, requestChallenge(request.OneTimeAccounts)),
		OngoingAccounts:    buildAccountsItem(grant.OngoingAccounts, requestChallenge(request.OngoingAccounts)),
		OneTimePersonaData: buildPersonaDataItem(grant.OneTimePersonaData),
		OngoingPersonaData: buildPersonaDataItem(grant.OngoingPersonaData),
	}
	if request.ProofOfOwnership != nil {
		items.ProofOfOwnership = buildProofOfOwnershipItem(request.ProofOfOwnership.Challenge, grant.VerifiedEntities)
	}

	return domain.SuccessResponse{
		InteractionID: request.InteractionID,
		Items:         items,
	}, nil
}

// BuildUnauthorizedResponse builds the success response for an anonymous
// one-time request. No persona item exists in this flow, so assembly cannot
// fail.
func (b *ResponseBuilder) BuildUnauthorizedResponse(
	request *domain.UnauthorizedRequest,
	oneTimeAccounts []domain.AccountWithSignature,
	oneTimePersonaData *domain.PersonaData,
) domain.SuccessResponse {
	return domain.SuccessResponse{
		InteractionID: request.InteractionID,
		Items: domain.UnauthorizedResponseItems{
			OneTimeAccounts:    buildAccountsItem(oneTimeAccounts, requestChallenge(request.OneTimeAccounts)),
			OneTimePersonaData: buildPersonaDataItem(oneTimePersonaData),
		},
	}
}

func (b *ResponseBuilder) BuildFailureResponse(request domain.AuthorizationRequest, kind domain.ErrorKind) domain.FailureResponse {
	return domain.FailureResponse{
		InteractionID: request.Interaction(),
		Error:         kind,
	}
}

// buildAccountsItem maps accounts to wire tuples. Proofs are all or nothing:
// if even one signature is missing the proofs array is omitted entirely, so a
// response never claims partial proof coverage.
func buildAccountsItem(accounts []domain.AccountWithSignature, challenge *domain.Challenge) *domain.AccountsResponseItem {
	if len(accounts) == 0 {
		return nil
	}

	walletAccounts := make([]domain.WalletAccount, 0, len(accounts))
	proofs := make([]domain.AccountProof, 0, len(accounts))
	for _, entry := range accounts {
		walletAccounts = append(walletAccounts, domain.WalletAccount{
			Address:      entry.Account.Address,
			Label:        entry.Account.Label,
			AppearanceID: entry.Account.AppearanceID,
		})
		if proofs == nil || entry.Signature == nil {
			proofs = nil
			continue
		}
		proofs = append(proofs, domain.AccountProof{
			AccountAddress: entry.Account.Address,
			Proof:          entry.Signature.Proof(),
		})
	}

	return &domain.AccountsResponseItem{
		Accounts:  walletAccounts,
		Challenge: challenge,
		Proofs:    proofs,
	}
}

func buildPersonaDataItem(data *domain.PersonaData) *domain.PersonaDataResponseItem {
	if data == nil {
		return nil
	}
	entries := make([]domain.PersonaDataEntry, len(data.Entries))
	copy(entries, data.Entries)
	return &domain.PersonaDataResponseItem{Entries: entries}
}

func buildProofOfOwnershipItem(challenge domain.Challenge, verified []domain.VerifiedEntity) *domain.ProofOfOwnershipResponseItem {
	proofs := make([]domain.EntityProof, 0, len(verified))
	for _, entity := range verified {
		proofs = append(proofs, domain.EntityProof{
			Kind:    entity.Kind,
			Address: entity.Address,
			Proof:   entity.Signature.Proof(),
		})
	}
	return &domain.ProofOfOwnershipResponseItem{
		Challenge: challenge,
		Proofs:    proofs,
	}
}

func requestChallenge(item *domain.AccountsRequestItem) *domain.Challenge {
	if item == nil {
		return nil
	}
	return item.Challenge
}
