package http

import (
	"context"
	"errors"
	"net/http"

	"walletlink/internal/domain"
	"walletlink/internal/usecase"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// responseRecorder captures the wire response the engine emits for one
// interaction so the handler can return it in the HTTP body.
type responseRecorder struct {
	success *domain.SuccessResponse
	failure *domain.FailureResponse
}

func (r *responseRecorder) SendSuccess(_ context.Context, response domain.SuccessResponse) error {
	r.success = &response
	return nil
}

func (r *responseRecorder) SendFailure(_ context.Context, response domain.FailureResponse) error {
	r.failure = &response
	return nil
}

func (r *responseRecorder) recorded() (domain.AuthorizationResponse, bool) {
	if r.success != nil {
		return *r.success, true
	}
	if r.failure != nil {
		return *r.failure, true
	}
	return nil, false
}

// handleInteraction runs the silent-authorization engine over an incoming dApp
// interaction. A silently satisfied or terminally failed interaction gets its
// wire response back directly; anything else is deferred to the interactive
// consent flow with a 202.
func (s *Server) handleInteraction(c *gin.Context) {
	if s.silentUC == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var wire interactionRequest
	if err := c.ShouldBindJSON(&wire); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	request, err := decodeRequest(wire)
	if err != nil {
		writeError(c, err)
		return
	}

	recorder := &responseRecorder{}
	result, err := s.silentUC.Execute(c.Request.Context(), request, recorder)
	if err != nil {
		writeError(c, err)
		return
	}

	if result.Outcome == usecase.OutcomeNotApplicable {
		c.JSON(http.StatusAccepted, gin.H{
			"status":        "interactionRequired",
			"interactionId": string(request.Interaction()),
		})
		return
	}

	response, ok := recorder.recorded()
	if !ok {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "engine produced no response")
		return
	}
	c.JSON(http.StatusOK, encodeResponse(response))
}

type authorizedResponseRequest struct {
	Request interactionRequest `json:"request"`
	Grant   resolvedGrantInput `json:"grant"`
}

type resolvedGrantInput struct {
	Persona            personaInput             `json:"persona"`
	PersonaSignature   *signatureInput          `json:"personaSignature,omitempty"`
	OneTimeAccounts    []signedAccountInput     `json:"oneTimeAccounts,omitempty"`
	OngoingAccounts    []signedAccountInput     `json:"ongoingAccounts,omitempty"`
	OneTimePersonaData *personaDataResponseItem `json:"oneTimePersonaData,omitempty"`
	OngoingPersonaData *personaDataResponseItem `json:"ongoingPersonaData,omitempty"`
	VerifiedEntities   []verifiedEntityInput    `json:"verifiedEntities,omitempty"`
}

type personaInput struct {
	IdentityAddress string `json:"identityAddress"`
	Label           string `json:"label"`
}

type signatureInput struct {
	Curve     string `json:"curve"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

type signedAccountInput struct {
	Account   walletAccount   `json:"account"`
	Signature *signatureInput `json:"signature,omitempty"`
}

type verifiedEntityInput struct {
	Kind      string         `json:"kind"`
	Address   string         `json:"address"`
	Signature signatureInput `json:"signature"`
}

type unauthorizedResponseRequest struct {
	Request            interactionRequest       `json:"request"`
	OneTimeAccounts    []signedAccountInput     `json:"oneTimeAccounts,omitempty"`
	OneTimePersonaData *personaDataResponseItem `json:"oneTimePersonaData,omitempty"`
}

// handleBuildAuthorizedResponse assembles the wire response for an authorized
// request the interactive flow has already collected consent for. The caller
// supplies the selected persona, accounts, and any gathered signatures.
func (s *Server) handleBuildAuthorizedResponse(c *gin.Context) {
	var req authorizedResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	request, err := decodeRequest(req.Request)
	if err != nil {
		writeError(c, err)
		return
	}
	authRequest, ok := request.(*domain.AuthorizedRequest)
	if !ok {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "not an authorized request")
		return
	}

	grant := decodeResolvedGrant(req.Grant)
	response, err := s.builder.BuildAuthorizedResponse(authRequest, grant)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, encodeResponse(response))
}

func (s *Server) handleBuildUnauthorizedResponse(c *gin.Context) {
	var req unauthorizedResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	request, err := decodeRequest(req.Request)
	if err != nil {
		writeError(c, err)
		return
	}
	anonRequest, ok := request.(*domain.UnauthorizedRequest)
	if !ok {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "not an unauthorized request")
		return
	}

	response := s.builder.BuildUnauthorizedResponse(
		anonRequest,
		decodeSignedAccounts(req.OneTimeAccounts),
		decodePersonaDataSelection(req.OneTimePersonaData),
	)
	c.JSON(http.StatusOK, encodeResponse(response))
}

func decodeResolvedGrant(input resolvedGrantInput) domain.ResolvedGrant {
	grant := domain.ResolvedGrant{
		Persona: domain.Persona{
			Address: domain.IdentityAddress(input.Persona.IdentityAddress),
			Label:   input.Persona.Label,
		},
		PersonaSignature:   decodeSignature(input.PersonaSignature),
		OneTimeAccounts:    decodeSignedAccounts(input.OneTimeAccounts),
		OngoingAccounts:    decodeSignedAccounts(input.OngoingAccounts),
		OneTimePersonaData: decodePersonaDataSelection(input.OneTimePersonaData),
		OngoingPersonaData: decodePersonaDataSelection(input.OngoingPersonaData),
	}
	for _, entity := range input.VerifiedEntities {
		grant.VerifiedEntities = append(grant.VerifiedEntities, domain.VerifiedEntity{
			Kind:    domain.EntityKind(entity.Kind),
			Address: entity.Address,
			Signature: domain.SignatureWithPublicKey{
				Curve:     entity.Signature.Curve,
				PublicKey: entity.Signature.PublicKey,
				Signature: entity.Signature.Signature,
			},
		})
	}
	return grant
}

func decodeSignature(input *signatureInput) *domain.SignatureWithPublicKey {
	if input == nil {
		return nil
	}
	return &domain.SignatureWithPublicKey{
		Curve:     input.Curve,
		PublicKey: input.PublicKey,
		Signature: input.Signature,
	}
}

func decodeSignedAccounts(inputs []signedAccountInput) []domain.AccountWithSignature {
	accounts := make([]domain.AccountWithSignature, 0, len(inputs))
	for _, input := range inputs {
		accounts = append(accounts, domain.AccountWithSignature{
			Account: domain.Account{
				Address:      domain.AccountAddress(input.Account.Address),
				Label:        input.Account.Label,
				AppearanceID: input.Account.AppearanceID,
			},
			Signature: decodeSignature(input.Signature),
		})
	}
	return accounts
}

func decodePersonaDataSelection(input *personaDataResponseItem) *domain.PersonaData {
	if input == nil {
		return nil
	}
	data := &domain.PersonaData{}
	for _, entry := range input.Entries {
		data.Entries = append(data.Entries, domain.PersonaDataEntry{
			ID:    domain.PersonaDataEntryID(entry.ID),
			Kind:  domain.FieldKind(entry.Kind),
			Value: entry.Value,
		})
	}
	return data
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, domain.ErrInvalidPersona):
		status, code = http.StatusBadRequest, "INVALID_PERSONA"
	case errors.Is(err, domain.ErrMissingChallengeProof):
		status, code = http.StatusUnprocessableEntity, "MISSING_CHALLENGE_PROOF"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
