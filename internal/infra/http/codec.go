package http

import (
	"fmt"

	"walletlink/internal/domain"

	"github.com/google/uuid"
)

// Wire DTOs for the connector protocol. Request and response items are
// discriminated unions; the response envelope mirrors whichever items the
// request populated.

const (
	discriminatorAuthorizedRequest     = "authorizedRequest"
	discriminatorUnauthorizedRequest   = "unauthorizedRequest"
	discriminatorLoginWithChallenge    = "loginWithChallenge"
	discriminatorLoginWithoutChallenge = "loginWithoutChallenge"
	discriminatorUsePersona            = "usePersona"
	discriminatorSuccess               = "success"
	discriminatorFailure               = "failure"
)

type interactionRequest struct {
	InteractionID string          `json:"interactionId"`
	Metadata      requestMetadata `json:"metadata"`
	Items         requestItems    `json:"items"`

	// RemoteBridge is set by the mobile-connect relay, never by dApps.
	RemoteBridge bool `json:"remoteBridge,omitempty"`
}

type requestMetadata struct {
	Version               int    `json:"version"`
	NetworkID             uint8  `json:"networkId"`
	Origin                string `json:"origin"`
	DappDefinitionAddress string `json:"dAppDefinitionAddress"`
}

type requestItems struct {
	Discriminator      string                       `json:"discriminator"`
	Auth               *authRequestItem             `json:"auth,omitempty"`
	OneTimeAccounts    *accountsRequestItem         `json:"oneTimeAccounts,omitempty"`
	OngoingAccounts    *accountsRequestItem         `json:"ongoingAccounts,omitempty"`
	OneTimePersonaData *personaDataRequestItem      `json:"oneTimePersonaData,omitempty"`
	OngoingPersonaData *personaDataRequestItem      `json:"ongoingPersonaData,omitempty"`
	Reset              *resetRequestItem            `json:"reset,omitempty"`
	ProofOfOwnership   *proofOfOwnershipRequestItem `json:"proofOfOwnership,omitempty"`
}

type authRequestItem struct {
	Discriminator   string `json:"discriminator"`
	Challenge       string `json:"challenge,omitempty"`
	IdentityAddress string `json:"identityAddress,omitempty"`
}

type numberOfValues struct {
	Quantity   int    `json:"quantity"`
	Quantifier string `json:"quantifier"`
}

type accountsRequestItem struct {
	NumberOfAccounts numberOfValues `json:"numberOfAccounts"`
	Challenge        *string        `json:"challenge,omitempty"`
}

type personaDataRequestItem struct {
	IsRequestingName                *bool           `json:"isRequestingName,omitempty"`
	NumberOfRequestedEmailAddresses *numberOfValues `json:"numberOfRequestedEmailAddresses,omitempty"`
	NumberOfRequestedPhoneNumbers   *numberOfValues `json:"numberOfRequestedPhoneNumbers,omitempty"`
}

type resetRequestItem struct {
	Accounts    bool `json:"accounts"`
	PersonaData bool `json:"personaData"`
}

type proofOfOwnershipRequestItem struct {
	Challenge        string   `json:"challenge"`
	AccountAddresses []string `json:"accountAddresses,omitempty"`
	IdentityAddress  *string  `json:"identityAddress,omitempty"`
}

type interactionResponse struct {
	Discriminator string         `json:"discriminator"`
	InteractionID string         `json:"interactionId"`
	Items         *responseItems `json:"items,omitempty"`
	Error         string         `json:"error,omitempty"`
	Message       string         `json:"message,omitempty"`
}

type responseItems struct {
	Discriminator      string                        `json:"discriminator"`
	Auth               *authResponseItem             `json:"auth,omitempty"`
	OneTimeAccounts    *accountsResponseItem         `json:"oneTimeAccounts,omitempty"`
	OngoingAccounts    *accountsResponseItem         `json:"ongoingAccounts,omitempty"`
	OneTimePersonaData *personaDataResponseItem      `json:"oneTimePersonaData,omitempty"`
	OngoingPersonaData *personaDataResponseItem      `json:"ongoingPersonaData,omitempty"`
	ProofOfOwnership   *proofOfOwnershipResponseItem `json:"proofOfOwnership,omitempty"`
}

type responsePersona struct {
	IdentityAddress string `json:"identityAddress"`
	Label           string `json:"label"`
}

type authResponseItem struct {
	Discriminator string          `json:"discriminator"`
	Persona       responsePersona `json:"persona"`
	Challenge     string          `json:"challenge,omitempty"`
	Proof         *authProof      `json:"proof,omitempty"`
}

type authProof struct {
	Curve     string `json:"curve"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

type walletAccount struct {
	Address      string `json:"address"`
	Label        string `json:"label"`
	AppearanceID uint8  `json:"appearanceId"`
}

type accountProof struct {
	AccountAddress string    `json:"accountAddress"`
	Proof          authProof `json:"proof"`
}

type accountsResponseItem struct {
	Accounts  []walletAccount `json:"accounts"`
	Challenge *string         `json:"challenge,omitempty"`
	Proofs    []accountProof  `json:"proofs,omitempty"`
}

type personaDataEntry struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type personaDataResponseItem struct {
	Entries []personaDataEntry `json:"entries"`
}

type entityProof struct {
	Kind    string    `json:"kind"`
	Address string    `json:"address"`
	Proof   authProof `json:"proof"`
}

type proofOfOwnershipResponseItem struct {
	Challenge string        `json:"challenge"`
	Proofs    []entityProof `json:"proofs"`
}

func decodeRequest(wire interactionRequest) (domain.AuthorizationRequest, error) {
	if _, err := uuid.Parse(wire.InteractionID); err != nil {
		return nil, fmt.Errorf("%w: interaction id is not a uuid", domain.ErrInvalidRequest)
	}
	metadata := domain.RequestMetadata{
		NetworkID:             wire.Metadata.NetworkID,
		Origin:                wire.Metadata.Origin,
		DappDefinitionAddress: domain.AccountAddress(wire.Metadata.DappDefinitionAddress),
	}

	switch wire.Items.Discriminator {
	case discriminatorAuthorizedRequest:
		if wire.Items.Auth == nil {
			return nil, fmt.Errorf("%w: authorized request without auth item", domain.ErrInvalidRequest)
		}
		auth, err := decodeAuthItem(*wire.Items.Auth)
		if err != nil {
			return nil, err
		}
		request := &domain.AuthorizedRequest{
			InteractionID:      domain.InteractionID(wire.InteractionID),
			Metadata:           metadata,
			Auth:               auth,
			OneTimeAccounts:    decodeAccountsItem(wire.Items.OneTimeAccounts),
			OngoingAccounts:    decodeAccountsItem(wire.Items.OngoingAccounts),
			OneTimePersonaData: decodePersonaDataItem(wire.Items.OneTimePersonaData),
			OngoingPersonaData: decodePersonaDataItem(wire.Items.OngoingPersonaData),
			Reset:              decodeResetItem(wire.Items.Reset),
			ProofOfOwnership:   decodeProofOfOwnershipItem(wire.Items.ProofOfOwnership),
			RemoteBridge:       wire.RemoteBridge,
		}
		if !request.IsValid() {
			return nil, domain.ErrInvalidRequest
		}
		return request, nil

	case discriminatorUnauthorizedRequest:
		request := &domain.UnauthorizedRequest{
			InteractionID:      domain.InteractionID(wire.InteractionID),
			Metadata:           metadata,
			OneTimeAccounts:    decodeAccountsItem(wire.Items.OneTimeAccounts),
			OneTimePersonaData: decodePersonaDataItem(wire.Items.OneTimePersonaData),
		}
		if !request.IsValid() {
			return nil, domain.ErrInvalidRequest
		}
		return request, nil

	default:
		return nil, fmt.Errorf("%w: unknown items discriminator %q", domain.ErrInvalidRequest, wire.Items.Discriminator)
	}
}

func decodeAuthItem(wire authRequestItem) (domain.AuthItem, error) {
	switch wire.Discriminator {
	case discriminatorLoginWithChallenge:
		if wire.Challenge == "" {
			return nil, fmt.Errorf("%w: login challenge missing", domain.ErrInvalidRequest)
		}
		return domain.LoginWithChallenge{Challenge: domain.Challenge(wire.Challenge)}, nil
	case discriminatorLoginWithoutChallenge:
		return domain.LoginWithoutChallenge{}, nil
	case discriminatorUsePersona:
		if wire.IdentityAddress == "" {
			return nil, fmt.Errorf("%w: use persona without identity address", domain.ErrInvalidRequest)
		}
		return domain.UsePersona{IdentityAddress: domain.IdentityAddress(wire.IdentityAddress)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown auth discriminator %q", domain.ErrInvalidRequest, wire.Discriminator)
	}
}

func decodeAccountsItem(wire *accountsRequestItem) *domain.AccountsRequestItem {
	if wire == nil {
		return nil
	}
	item := &domain.AccountsRequestItem{
		NumberOfAccounts: domain.NumberOfValues{
			Quantity:   wire.NumberOfAccounts.Quantity,
			Quantifier: domain.Quantifier(wire.NumberOfAccounts.Quantifier),
		},
	}
	if wire.Challenge != nil {
		challenge := domain.Challenge(*wire.Challenge)
		item.Challenge = &challenge
	}
	return item
}

// decodePersonaDataItem expands the protocol's fixed name/email/phone flags
// into the required-field list used internally. A name request is always
// "exactly one".
func decodePersonaDataItem(wire *personaDataRequestItem) *domain.PersonaDataRequestItem {
	if wire == nil {
		return nil
	}
	var fields []domain.RequiredField
	if wire.IsRequestingName != nil && *wire.IsRequestingName {
		fields = append(fields, domain.RequiredField{
			Kind:           domain.FieldKindName,
			NumberOfValues: domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierExactly},
		})
	}
	if wire.NumberOfRequestedEmailAddresses != nil {
		fields = append(fields, domain.RequiredField{
			Kind: domain.FieldKindEmailAddress,
			NumberOfValues: domain.NumberOfValues{
				Quantity:   wire.NumberOfRequestedEmailAddresses.Quantity,
				Quantifier: domain.Quantifier(wire.NumberOfRequestedEmailAddresses.Quantifier),
			},
		})
	}
	if wire.NumberOfRequestedPhoneNumbers != nil {
		fields = append(fields, domain.RequiredField{
			Kind: domain.FieldKindPhoneNumber,
			NumberOfValues: domain.NumberOfValues{
				Quantity:   wire.NumberOfRequestedPhoneNumbers.Quantity,
				Quantifier: domain.Quantifier(wire.NumberOfRequestedPhoneNumbers.Quantifier),
			},
		})
	}
	return &domain.PersonaDataRequestItem{RequiredFields: fields}
}

func decodeResetItem(wire *resetRequestItem) *domain.ResetRequestItem {
	if wire == nil {
		return nil
	}
	return &domain.ResetRequestItem{
		Accounts:    wire.Accounts,
		PersonaData: wire.PersonaData,
	}
}

func decodeProofOfOwnershipItem(wire *proofOfOwnershipRequestItem) *domain.ProofOfOwnershipRequestItem {
	if wire == nil {
		return nil
	}
	item := &domain.ProofOfOwnershipRequestItem{
		Challenge: domain.Challenge(wire.Challenge),
	}
	for _, address := range wire.AccountAddresses {
		item.AccountAddresses = append(item.AccountAddresses, domain.AccountAddress(address))
	}
	if wire.IdentityAddress != nil {
		identity := domain.IdentityAddress(*wire.IdentityAddress)
		item.IdentityAddress = &identity
	}
	return item
}

func encodeResponse(response domain.AuthorizationResponse) interactionResponse {
	switch r := response.(type) {
	case domain.SuccessResponse:
		return interactionResponse{
			Discriminator: discriminatorSuccess,
			InteractionID: string(r.InteractionID),
			Items:         encodeResponseItems(r.Items),
		}
	case domain.FailureResponse:
		return interactionResponse{
			Discriminator: discriminatorFailure,
			InteractionID: string(r.InteractionID),
			Error:         string(r.Error),
			Message:       r.Message,
		}
	default:
		// Unreachable: the response union has exactly two variants.
		return interactionResponse{}
	}
}

func encodeResponseItems(items domain.ResponseItems) *responseItems {
	switch i := items.(type) {
	case domain.AuthorizedResponseItems:
		return &responseItems{
			Discriminator:      discriminatorAuthorizedRequest,
			Auth:               encodeAuthResponseItem(i.Auth),
			OneTimeAccounts:    encodeAccountsResponseItem(i.OneTimeAccounts),
			OngoingAccounts:    encodeAccountsResponseItem(i.OngoingAccounts),
			OneTimePersonaData: encodePersonaDataResponseItem(i.OneTimePersonaData),
			OngoingPersonaData: encodePersonaDataResponseItem(i.OngoingPersonaData),
			ProofOfOwnership:   encodeProofOfOwnershipResponseItem(i.ProofOfOwnership),
		}
	case domain.UnauthorizedResponseItems:
		return &responseItems{
			Discriminator:      discriminatorUnauthorizedRequest,
			OneTimeAccounts:    encodeAccountsResponseItem(i.OneTimeAccounts),
			OneTimePersonaData: encodePersonaDataResponseItem(i.OneTimePersonaData),
		}
	default:
		return nil
	}
}

func encodeAuthResponseItem(item domain.AuthResponseItem) *authResponseItem {
	switch a := item.(type) {
	case domain.AuthLoginWithChallengeItem:
		proof := encodeProof(a.Proof)
		return &authResponseItem{
			Discriminator: discriminatorLoginWithChallenge,
			Persona:       encodePersona(a.Persona),
			Challenge:     string(a.Challenge),
			Proof:         &proof,
		}
	case domain.AuthLoginWithoutChallengeItem:
		return &authResponseItem{
			Discriminator: discriminatorLoginWithoutChallenge,
			Persona:       encodePersona(a.Persona),
		}
	case domain.AuthUsePersonaItem:
		return &authResponseItem{
			Discriminator: discriminatorUsePersona,
			Persona:       encodePersona(a.Persona),
		}
	default:
		return nil
	}
}

func encodePersona(persona domain.ResponsePersona) responsePersona {
	return responsePersona{
		IdentityAddress: string(persona.IdentityAddress),
		Label:           persona.Label,
	}
}

func encodeProof(proof domain.AuthProof) authProof {
	return authProof{
		Curve:     proof.Curve,
		PublicKey: proof.PublicKey,
		Signature: proof.Signature,
	}
}

func encodeAccountsResponseItem(item *domain.AccountsResponseItem) *accountsResponseItem {
	if item == nil {
		return nil
	}
	wire := &accountsResponseItem{}
	for _, account := range item.Accounts {
		wire.Accounts = append(wire.Accounts, walletAccount{
			Address:      string(account.Address),
			Label:        account.Label,
			AppearanceID: account.AppearanceID,
		})
	}
	if item.Challenge != nil {
		challenge := string(*item.Challenge)
		wire.Challenge = &challenge
	}
	for _, proof := range item.Proofs {
		wire.Proofs = append(wire.Proofs, accountProof{
			AccountAddress: string(proof.AccountAddress),
			Proof:          encodeProof(proof.Proof),
		})
	}
	return wire
}

func encodePersonaDataResponseItem(item *domain.PersonaDataResponseItem) *personaDataResponseItem {
	if item == nil {
		return nil
	}
	wire := &personaDataResponseItem{Entries: []personaDataEntry{}}
	for _, entry := range item.Entries {
		wire.Entries = append(wire.Entries, personaDataEntry{
			ID:    string(entry.ID),
			Kind:  string(entry.Kind),
			Value: entry.Value,
		})
	}
	return wire
}

func encodeProofOfOwnershipResponseItem(item *domain.ProofOfOwnershipResponseItem) *proofOfOwnershipResponseItem {
	if item == nil {
		return nil
	}
	wire := &proofOfOwnershipResponseItem{Challenge: string(item.Challenge)}
	for _, proof := range item.Proofs {
		wire.Proofs = append(wire.Proofs, entityProof{
			Kind:    string(proof.Kind),
			Address: proof.Address,
			Proof:   encodeProof(proof.Proof),
		})
	}
	return wire
}
