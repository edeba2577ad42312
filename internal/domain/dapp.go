package domain

import "time"

// AuthorizedDapp is the per-dApp authorization record: which personas the
// user has logged in with and what each of them shared.
type AuthorizedDapp struct {
	DappDefinitionAddress AccountAddress
	DisplayName           string
	Personas              []AuthorizedPersonaSimple
}

func (d AuthorizedDapp) PersonaByAddress(address IdentityAddress) *AuthorizedPersonaSimple {
	for i := range d.Personas {
		if d.Personas[i].IdentityAddress == address {
			return &d.Personas[i]
		}
	}
	return nil
}

// AuthorizedPersonaSimple records what one persona has shared with a dApp.
// SharedAccounts keeps the request shape the grant was made under; the
// compatibility policy compares it against new requests.
type AuthorizedPersonaSimple struct {
	IdentityAddress   IdentityAddress
	SharedAccounts    *SharedAccounts
	SharedPersonaData SharedPersonaData
	LastLogin         time.Time
}

type SharedAccounts struct {
	Request NumberOfValues
	IDs     []AccountAddress
}

// SharedPersonaData lists the persona data entries granted to the dApp, by
// stable entry id.
type SharedPersonaData struct {
	EntryIDs []PersonaDataEntryID
}

// WithLastLogin returns a copy of the record with the matching persona's
// last-login timestamp replaced. All other personas are untouched.
func (d AuthorizedDapp) WithLastLogin(address IdentityAddress, at time.Time) AuthorizedDapp {
	personas := make([]AuthorizedPersonaSimple, len(d.Personas))
	copy(personas, d.Personas)
	for i := range personas {
		if personas[i].IdentityAddress == address {
			personas[i].LastLogin = at
		}
	}
	d.Personas = personas
	return d
}
