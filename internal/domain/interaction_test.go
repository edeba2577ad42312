package domain

import (
	"testing"
	"time"
)

func testTime() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func usePersonaRequest() *AuthorizedRequest {
	return &AuthorizedRequest{
		InteractionID: "interaction-1",
		Auth:          UsePersona{IdentityAddress: "identity_rdx1_alice"},
	}
}

func TestNeedsSignatures(t *testing.T) {
	challenge := Challenge("deadbeef")

	request := usePersonaRequest()
	if request.NeedsSignatures() {
		t.Fatalf("plain use-persona request needs no signatures")
	}

	request = usePersonaRequest()
	request.Auth = LoginWithChallenge{Challenge: challenge}
	if !request.NeedsSignatures() {
		t.Fatalf("login challenge demands signatures")
	}

	request = usePersonaRequest()
	request.OngoingAccounts = &AccountsRequestItem{Challenge: &challenge}
	if !request.NeedsSignatures() {
		t.Fatalf("account challenge demands signatures")
	}

	request = usePersonaRequest()
	request.ProofOfOwnership = &ProofOfOwnershipRequestItem{Challenge: challenge}
	if !request.NeedsSignatures() {
		t.Fatalf("proof of ownership demands signatures")
	}
}

func TestHasOngoingItemsOnly(t *testing.T) {
	ongoing := &AccountsRequestItem{
		NumberOfAccounts: NumberOfValues{Quantity: 1, Quantifier: QuantifierAtLeast},
	}

	request := usePersonaRequest()
	request.OngoingAccounts = ongoing
	if !request.HasOngoingItemsOnly() {
		t.Fatalf("ongoing accounts under use-persona qualify")
	}

	request.OneTimeAccounts = &AccountsRequestItem{}
	if request.HasOngoingItemsOnly() {
		t.Fatalf("a one-time item disqualifies the request")
	}

	request = usePersonaRequest()
	request.OngoingAccounts = ongoing
	request.Reset = &ResetRequestItem{PersonaData: true}
	if request.HasOngoingItemsOnly() {
		t.Fatalf("a reset flag disqualifies the request")
	}

	request = usePersonaRequest()
	request.OngoingAccounts = ongoing
	request.Auth = LoginWithoutChallenge{}
	if request.HasOngoingItemsOnly() {
		t.Fatalf("only use-persona requests qualify")
	}

	request = usePersonaRequest()
	if request.HasOngoingItemsOnly() {
		t.Fatalf("a request without data items does not qualify")
	}
	if !request.HasOnlyAuthItem() {
		t.Fatalf("a request without data items is auth-only")
	}
}

func TestIsValid(t *testing.T) {
	request := usePersonaRequest()
	if !request.IsValid() {
		t.Fatalf("minimal request must be valid")
	}

	request.OngoingAccounts = &AccountsRequestItem{
		NumberOfAccounts: NumberOfValues{Quantity: -1, Quantifier: QuantifierExactly},
	}
	if request.IsValid() {
		t.Fatalf("negative account count must be invalid")
	}

	request = usePersonaRequest()
	request.OngoingPersonaData = &PersonaDataRequestItem{}
	if request.IsValid() {
		t.Fatalf("empty persona data request must be invalid")
	}

	request = usePersonaRequest()
	request.Auth = nil
	if request.IsValid() {
		t.Fatalf("missing auth item must be invalid")
	}
}

func TestWithLastLoginDoesNotMutate(t *testing.T) {
	dapp := AuthorizedDapp{
		DappDefinitionAddress: "account_rdx1_dapp",
		Personas: []AuthorizedPersonaSimple{
			{IdentityAddress: "identity_rdx1_alice"},
			{IdentityAddress: "identity_rdx1_bob"},
		},
	}

	updated := dapp.WithLastLogin("identity_rdx1_alice", testTime())
	if !updated.Personas[0].LastLogin.Equal(testTime()) {
		t.Fatalf("matching persona must be updated")
	}
	if !updated.Personas[1].LastLogin.IsZero() {
		t.Fatalf("other personas must be untouched")
	}
	if !dapp.Personas[0].LastLogin.IsZero() {
		t.Fatalf("the receiver must not be mutated")
	}
}
