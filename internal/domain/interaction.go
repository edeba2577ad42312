package domain

// InteractionID identifies one dApp-to-wallet interaction. The connector
// protocol issues these as UUIDs.
type InteractionID string

// AccountAddress is a bech32-encoded account address. dApp definition
// addresses are account addresses as well.
type AccountAddress string

// IdentityAddress is a bech32-encoded persona address.
type IdentityAddress string

// Challenge is a dApp-supplied 32-byte nonce, hex encoded. Its presence on a
// request item means the response must carry freshly signed proofs.
type Challenge string

type Quantifier string

const (
	QuantifierExactly Quantifier = "exactly"
	QuantifierAtLeast Quantifier = "atLeast"
)

type NumberOfValues struct {
	Quantity   int
	Quantifier Quantifier
}

// RequestMetadata travels with every dApp request.
type RequestMetadata struct {
	NetworkID             uint8
	Origin                string
	DappDefinitionAddress AccountAddress
}

// AuthorizationRequest is the incoming interaction, either persona-based
// (AuthorizedRequest) or anonymous one-time (UnauthorizedRequest).
type AuthorizationRequest interface {
	isAuthorizationRequest()
	Interaction() InteractionID
}

type AuthorizedRequest struct {
	InteractionID      InteractionID
	Metadata           RequestMetadata
	Auth               AuthItem
	OneTimeAccounts    *AccountsRequestItem
	OngoingAccounts    *AccountsRequestItem
	OneTimePersonaData *PersonaDataRequestItem
	OngoingPersonaData *PersonaDataRequestItem
	Reset              *ResetRequestItem
	ProofOfOwnership   *ProofOfOwnershipRequestItem

	// RemoteBridge marks requests relayed through the mobile-connect bridge;
	// those always need on-device confirmation.
	RemoteBridge bool
}

func (*AuthorizedRequest) isAuthorizationRequest() {}

func (r *AuthorizedRequest) Interaction() InteractionID { return r.InteractionID }

// NeedsSignatures reports whether any item in the request carries a challenge
// and therefore demands freshly produced proofs.
func (r *AuthorizedRequest) NeedsSignatures() bool {
	if _, ok := r.Auth.(LoginWithChallenge); ok {
		return true
	}
	if r.OngoingAccounts != nil && r.OngoingAccounts.Challenge != nil {
		return true
	}
	if r.OneTimeAccounts != nil && r.OneTimeAccounts.Challenge != nil {
		return true
	}
	return r.ProofOfOwnership != nil
}

// HasOngoingItemsOnly reports whether the request is a UsePersona request
// whose data items are exclusively ongoing ones, with no reset flags. Only
// such requests are candidates for silent authorization.
func (r *AuthorizedRequest) HasOngoingItemsOnly() bool {
	if _, ok := r.Auth.(UsePersona); !ok {
		return false
	}
	if r.OneTimeAccounts != nil || r.OneTimePersonaData != nil {
		return false
	}
	if r.ResetRequested() {
		return false
	}
	return r.OngoingAccounts != nil || r.OngoingPersonaData != nil
}

// HasOnlyAuthItem reports a pure login request carrying no data items at all.
func (r *AuthorizedRequest) HasOnlyAuthItem() bool {
	return r.OngoingAccounts == nil && r.OngoingPersonaData == nil &&
		r.OneTimeAccounts == nil && r.OneTimePersonaData == nil
}

func (r *AuthorizedRequest) ResetRequested() bool {
	return r.Reset != nil && (r.Reset.Accounts || r.Reset.PersonaData)
}

func (r *AuthorizedRequest) IsValid() bool {
	if r.Auth == nil {
		return false
	}
	for _, item := range []*AccountsRequestItem{r.OngoingAccounts, r.OneTimeAccounts} {
		if item != nil && item.NumberOfAccounts.Quantity < 0 {
			return false
		}
	}
	for _, item := range []*PersonaDataRequestItem{r.OngoingPersonaData, r.OneTimePersonaData} {
		if item != nil && len(item.RequiredFields) == 0 {
			return false
		}
	}
	return true
}

type UnauthorizedRequest struct {
	InteractionID      InteractionID
	Metadata           RequestMetadata
	OneTimeAccounts    *AccountsRequestItem
	OneTimePersonaData *PersonaDataRequestItem
}

func (*UnauthorizedRequest) isAuthorizationRequest() {}

func (r *UnauthorizedRequest) Interaction() InteractionID { return r.InteractionID }

func (r *UnauthorizedRequest) IsValid() bool {
	return r.OneTimeAccounts == nil || r.OneTimeAccounts.NumberOfAccounts.Quantity >= 0
}

// AuthItem is the login portion of an authorized request. Exactly one variant
// is present per request; consumers must switch over all three.
type AuthItem interface {
	isAuthItem()
}

type LoginWithChallenge struct {
	Challenge Challenge
}

type LoginWithoutChallenge struct{}

type UsePersona struct {
	IdentityAddress IdentityAddress
}

func (LoginWithChallenge) isAuthItem()    {}
func (LoginWithoutChallenge) isAuthItem() {}
func (UsePersona) isAuthItem()            {}

type AccountsRequestItem struct {
	NumberOfAccounts NumberOfValues
	Challenge        *Challenge
}

type RequiredField struct {
	Kind           FieldKind
	NumberOfValues NumberOfValues
}

type PersonaDataRequestItem struct {
	RequiredFields []RequiredField
}

// ResetRequestItem asks the wallet to discard prior grants for the flagged
// categories and let the user re-select.
type ResetRequestItem struct {
	Accounts    bool
	PersonaData bool
}

type ProofOfOwnershipRequestItem struct {
	Challenge        Challenge
	AccountAddresses []AccountAddress
	IdentityAddress  *IdentityAddress
}
