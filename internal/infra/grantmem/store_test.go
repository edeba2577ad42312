package grantmem

import (
	"context"
	"errors"
	"testing"

	"walletlink/internal/domain"
)

func TestStore_MissReturnsNotFound(t *testing.T) {
	store := New()
	_, err := store.GetAuthorizedDapp(context.Background(), "account_rdx1_unknown")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RoundTripDetachesSlices(t *testing.T) {
	store := New()
	dapp := domain.AuthorizedDapp{
		DappDefinitionAddress: "account_rdx1_dapp",
		DisplayName:           "Dashboard",
		Personas: []domain.AuthorizedPersonaSimple{
			{
				IdentityAddress: "identity_rdx1_alice",
				SharedAccounts: &domain.SharedAccounts{
					Request: domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierAtLeast},
					IDs:     []domain.AccountAddress{"account_rdx1_a"},
				},
				SharedPersonaData: domain.SharedPersonaData{
					EntryIDs: []domain.PersonaDataEntryID{"entry-1"},
				},
			},
		},
	}
	if err := store.PutAuthorizedDapp(context.Background(), dapp); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Mutating the caller's record after the put must not leak into the store.
	dapp.Personas[0].SharedAccounts.IDs[0] = "account_rdx1_tampered"

	got, err := store.GetAuthorizedDapp(context.Background(), "account_rdx1_dapp")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Personas[0].SharedAccounts.IDs[0] != "account_rdx1_a" {
		t.Fatalf("stored record was mutated through the caller's slice")
	}

	// Same in the read direction.
	got.Personas[0].SharedPersonaData.EntryIDs[0] = "entry-tampered"
	again, err := store.GetAuthorizedDapp(context.Background(), "account_rdx1_dapp")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Personas[0].SharedPersonaData.EntryIDs[0] != "entry-1" {
		t.Fatalf("stored record was mutated through a read result")
	}
}
