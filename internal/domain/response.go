package domain

// ErrorKind is the wire-level error sent back to a dApp in a failure
// response.
type ErrorKind string

const (
	ErrorKindInvalidPersona ErrorKind = "invalidPersona"
	ErrorKindInvalidRequest ErrorKind = "invalidRequest"
	ErrorKindRejectedByUser ErrorKind = "rejectedByUser"
)

// AuthorizationResponse is the wallet's reply to a dApp interaction.
type AuthorizationResponse interface {
	isAuthorizationResponse()
	Interaction() InteractionID
}

type SuccessResponse struct {
	InteractionID InteractionID
	Items         ResponseItems
}

type FailureResponse struct {
	InteractionID InteractionID
	Error         ErrorKind
	Message       string
}

func (SuccessResponse) isAuthorizationResponse() {}
func (FailureResponse) isAuthorizationResponse() {}

func (r SuccessResponse) Interaction() InteractionID { return r.InteractionID }
func (r FailureResponse) Interaction() InteractionID { return r.InteractionID }

// ResponseItems structurally parallels the request's populated items:
// authorized requests get AuthorizedResponseItems, unauthorized ones get
// UnauthorizedResponseItems.
type ResponseItems interface {
	isResponseItems()
}

type AuthorizedResponseItems struct {
	Auth               AuthResponseItem
	OneTimeAccounts    *AccountsResponseItem
	OngoingAccounts    *AccountsResponseItem
	OneTimePersonaData *PersonaDataResponseItem
	OngoingPersonaData *PersonaDataResponseItem
	ProofOfOwnership   *ProofOfOwnershipResponseItem
}

type UnauthorizedResponseItems struct {
	OneTimeAccounts    *AccountsResponseItem
	OneTimePersonaData *PersonaDataResponseItem
}

func (AuthorizedResponseItems) isResponseItems()   {}
func (UnauthorizedResponseItems) isResponseItems() {}

// ResponsePersona identifies the persona a response speaks for.
type ResponsePersona struct {
	IdentityAddress IdentityAddress
	Label           string
}

// AuthResponseItem mirrors the request's auth item variant one to one.
type AuthResponseItem interface {
	isAuthResponseItem()
}

type AuthLoginWithChallengeItem struct {
	Persona   ResponsePersona
	Challenge Challenge
	Proof     AuthProof
}

type AuthLoginWithoutChallengeItem struct {
	Persona ResponsePersona
}

type AuthUsePersonaItem struct {
	Persona ResponsePersona
}

func (AuthLoginWithChallengeItem) isAuthResponseItem()    {}
func (AuthLoginWithoutChallengeItem) isAuthResponseItem() {}
func (AuthUsePersonaItem) isAuthResponseItem()            {}

type AuthProof struct {
	Curve     string
	PublicKey string
	Signature string
}

func (s SignatureWithPublicKey) Proof() AuthProof {
	return AuthProof{
		Curve:     s.Curve,
		PublicKey: s.PublicKey,
		Signature: s.Signature,
	}
}

type WalletAccount struct {
	Address      AccountAddress
	Label        string
	AppearanceID uint8
}

type AccountProof struct {
	AccountAddress AccountAddress
	Proof          AuthProof
}

// AccountsResponseItem shares account metadata with the dApp. Proofs is
// either one proof per account or absent entirely.
type AccountsResponseItem struct {
	Accounts  []WalletAccount
	Challenge *Challenge
	Proofs    []AccountProof
}

type PersonaDataResponseItem struct {
	Entries []PersonaDataEntry
}

type EntityProof struct {
	Kind    EntityKind
	Address string
	Proof   AuthProof
}

type ProofOfOwnershipResponseItem struct {
	Challenge Challenge
	Proofs    []EntityProof
}
