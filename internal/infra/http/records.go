package http

import (
	"net/http"
	"time"

	"walletlink/internal/domain"

	"github.com/gin-gonic/gin"
)

// Record endpoints expose the authorization ledger and profile snapshots to
// the wallet's consent UI. The interactive flow writes new grants here after
// the user approves a request.

type authorizedDappRecord struct {
	DappDefinitionAddress string                    `json:"dAppDefinitionAddress"`
	DisplayName           string                    `json:"displayName"`
	Personas              []authorizedPersonaRecord `json:"personas"`
}

type authorizedPersonaRecord struct {
	IdentityAddress   string                `json:"identityAddress"`
	SharedAccounts    *sharedAccountsRecord `json:"sharedAccounts,omitempty"`
	SharedPersonaData []string              `json:"sharedPersonaData"`
	LastLogin         string                `json:"lastLogin,omitempty"`
}

type sharedAccountsRecord struct {
	Request numberOfValues `json:"request"`
	IDs     []string       `json:"ids"`
}

type personaRecord struct {
	IdentityAddress string             `json:"identityAddress"`
	Label           string             `json:"label"`
	Entries         []personaDataEntry `json:"entries"`
}

func (s *Server) handleGetDapp(c *gin.Context) {
	if s.authorizations == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	dapp, err := s.authorizations.GetAuthorizedDapp(c.Request.Context(), domain.AccountAddress(c.Param("address")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, encodeDappRecord(*dapp))
}

func (s *Server) handlePutDapp(c *gin.Context) {
	if s.authorizations == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var record authorizedDappRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	dapp, err := decodeDappRecord(c.Param("address"), record)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.authorizations.PutAuthorizedDapp(c.Request.Context(), dapp); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetPersona(c *gin.Context) {
	if s.profiles == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	persona, err := s.profiles.GetCurrentPersona(c.Request.Context(), domain.IdentityAddress(c.Param("address")))
	if err != nil {
		writeError(c, err)
		return
	}
	out := personaRecord{
		IdentityAddress: string(persona.Address),
		Label:           persona.Label,
		Entries:         []personaDataEntry{},
	}
	for _, entry := range persona.Data.Entries {
		out.Entries = append(out.Entries, personaDataEntry{
			ID:    string(entry.ID),
			Kind:  string(entry.Kind),
			Value: entry.Value,
		})
	}
	c.JSON(http.StatusOK, out)
}

func encodeDappRecord(dapp domain.AuthorizedDapp) authorizedDappRecord {
	out := authorizedDappRecord{
		DappDefinitionAddress: string(dapp.DappDefinitionAddress),
		DisplayName:           dapp.DisplayName,
		Personas:              []authorizedPersonaRecord{},
	}
	for _, persona := range dapp.Personas {
		record := authorizedPersonaRecord{
			IdentityAddress:   string(persona.IdentityAddress),
			SharedPersonaData: []string{},
		}
		if persona.SharedAccounts != nil {
			shared := &sharedAccountsRecord{
				Request: numberOfValues{
					Quantity:   persona.SharedAccounts.Request.Quantity,
					Quantifier: string(persona.SharedAccounts.Request.Quantifier),
				},
				IDs: []string{},
			}
			for _, id := range persona.SharedAccounts.IDs {
				shared.IDs = append(shared.IDs, string(id))
			}
			record.SharedAccounts = shared
		}
		for _, entryID := range persona.SharedPersonaData.EntryIDs {
			record.SharedPersonaData = append(record.SharedPersonaData, string(entryID))
		}
		if !persona.LastLogin.IsZero() {
			record.LastLogin = persona.LastLogin.UTC().Format(time.RFC3339)
		}
		out.Personas = append(out.Personas, record)
	}
	return out
}

func decodeDappRecord(address string, record authorizedDappRecord) (domain.AuthorizedDapp, error) {
	if record.DappDefinitionAddress != "" && record.DappDefinitionAddress != address {
		return domain.AuthorizedDapp{}, domain.ErrInvalidRequest
	}
	dapp := domain.AuthorizedDapp{
		DappDefinitionAddress: domain.AccountAddress(address),
		DisplayName:           record.DisplayName,
	}
	for _, persona := range record.Personas {
		decoded := domain.AuthorizedPersonaSimple{
			IdentityAddress: domain.IdentityAddress(persona.IdentityAddress),
		}
		if persona.SharedAccounts != nil {
			shared := &domain.SharedAccounts{
				Request: domain.NumberOfValues{
					Quantity:   persona.SharedAccounts.Request.Quantity,
					Quantifier: domain.Quantifier(persona.SharedAccounts.Request.Quantifier),
				},
			}
			for _, id := range persona.SharedAccounts.IDs {
				shared.IDs = append(shared.IDs, domain.AccountAddress(id))
			}
			decoded.SharedAccounts = shared
		}
		for _, entryID := range persona.SharedPersonaData {
			decoded.SharedPersonaData.EntryIDs = append(decoded.SharedPersonaData.EntryIDs, domain.PersonaDataEntryID(entryID))
		}
		if persona.LastLogin != "" {
			parsed, err := time.Parse(time.RFC3339, persona.LastLogin)
			if err != nil {
				return domain.AuthorizedDapp{}, domain.ErrInvalidRequest
			}
			decoded.LastLogin = parsed.UTC()
		}
		dapp.Personas = append(dapp.Personas, decoded)
	}
	return dapp, nil
}
