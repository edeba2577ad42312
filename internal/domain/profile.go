package domain

type FieldKind string

const (
	FieldKindName         FieldKind = "name"
	FieldKindEmailAddress FieldKind = "emailAddress"
	FieldKindPhoneNumber  FieldKind = "phoneNumber"
)

// PersonaDataEntryID is the stable id of a single persona data field value.
// Grants reference entries by id so that renaming a value revokes nothing.
type PersonaDataEntryID string

type PersonaDataEntry struct {
	ID    PersonaDataEntryID
	Kind  FieldKind
	Value string
}

type PersonaData struct {
	Entries []PersonaDataEntry
}

func (d PersonaData) EntriesOfKind(kind FieldKind) []PersonaDataEntry {
	var out []PersonaDataEntry
	for _, entry := range d.Entries {
		if entry.Kind == kind {
			out = append(out, entry)
		}
	}
	return out
}

// KindOf returns the field kind of the entry with the given id, or "" when
// the persona no longer holds that entry.
func (d PersonaData) KindOf(id PersonaDataEntryID) FieldKind {
	for _, entry := range d.Entries {
		if entry.ID == id {
			return entry.Kind
		}
	}
	return ""
}

// Persona is a live identity in the user's profile.
type Persona struct {
	Address IdentityAddress
	Label   string
	Data    PersonaData
}

// Account is a live account in the user's profile.
type Account struct {
	Address      AccountAddress
	Label        string
	AppearanceID uint8
}

// SignatureWithPublicKey is the opaque result of the external signing
// service. This subsystem never produces one; it only carries them into
// responses.
type SignatureWithPublicKey struct {
	Curve     string
	PublicKey string
	Signature string
}

type AccountWithSignature struct {
	Account   Account
	Signature *SignatureWithPublicKey
}

type EntityKind string

const (
	EntityKindAccount EntityKind = "account"
	EntityKindPersona EntityKind = "persona"
)

// VerifiedEntity pairs an entity with the signature proving its ownership,
// produced by the interactive verification flow.
type VerifiedEntity struct {
	Kind      EntityKind
	Address   string
	Signature SignatureWithPublicKey
}

// ResolvedGrant is the ephemeral outcome of resolving a request against
// prior grants (or user selections). It is built per request, consumed once
// by the response builder and then discarded.
type ResolvedGrant struct {
	Persona            Persona
	PersonaSignature   *SignatureWithPublicKey
	OneTimeAccounts    []AccountWithSignature
	OngoingAccounts    []AccountWithSignature
	OngoingPersonaData *PersonaData
	OneTimePersonaData *PersonaData
	VerifiedEntities   []VerifiedEntity
}
