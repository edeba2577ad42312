package usecase

import (
	"context"
	"testing"
	"time"

	"walletlink/internal/domain"
)

func TestGrantedAccountAddresses_ExactlyTrimsInStoredOrder(t *testing.T) {
	ledger := &GrantLedger{
		Store:    grantedStore(time.Time{}),
		Profiles: liveProfiles(),
		Policy:   stubPolicy{allow: true},
	}

	addresses, err := ledger.GrantedAccountAddresses(
		context.Background(),
		testDappAddress,
		testPersonaAddress,
		domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierExactly},
	)
	if err != nil {
		t.Fatalf("granted addresses: %v", err)
	}
	if len(addresses) != 1 || addresses[0] != testAccountA {
		t.Fatalf("expected the first stored address only, got %v", addresses)
	}
}

func TestGrantedAccountAddresses_AtLeastReturnsAll(t *testing.T) {
	ledger := &GrantLedger{
		Store:    grantedStore(time.Time{}),
		Profiles: liveProfiles(),
		Policy:   stubPolicy{allow: true},
	}

	addresses, err := ledger.GrantedAccountAddresses(
		context.Background(),
		testDappAddress,
		testPersonaAddress,
		domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierAtLeast},
	)
	if err != nil {
		t.Fatalf("granted addresses: %v", err)
	}
	if len(addresses) != 2 {
		t.Fatalf("expected both stored addresses, got %v", addresses)
	}
}

func TestGrantedAccountAddresses_PolicyDenied(t *testing.T) {
	ledger := &GrantLedger{
		Store:    grantedStore(time.Time{}),
		Profiles: liveProfiles(),
		Policy:   stubPolicy{allow: false},
	}

	addresses, err := ledger.GrantedAccountAddresses(
		context.Background(),
		testDappAddress,
		testPersonaAddress,
		domain.NumberOfValues{Quantity: 3, Quantifier: domain.QuantifierExactly},
	)
	if err != nil {
		t.Fatalf("granted addresses: %v", err)
	}
	if len(addresses) != 0 {
		t.Fatalf("denied policy must yield no addresses, got %v", addresses)
	}
}

func TestGrantedAccountAddresses_NoAccountGrant(t *testing.T) {
	store := grantedStore(time.Time{})
	dapp := store.dapps[testDappAddress]
	dapp.Personas[0].SharedAccounts = nil
	store.dapps[testDappAddress] = dapp

	ledger := &GrantLedger{Store: store, Profiles: liveProfiles(), Policy: stubPolicy{allow: true}}
	addresses, err := ledger.GrantedAccountAddresses(
		context.Background(),
		testDappAddress,
		testPersonaAddress,
		domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierAtLeast},
	)
	if err != nil {
		t.Fatalf("granted addresses: %v", err)
	}
	if addresses != nil {
		t.Fatalf("expected nil without a stored account grant, got %v", addresses)
	}
}

func TestHasAllDataFields_Satisfied(t *testing.T) {
	ledger := &GrantLedger{
		Store:    grantedStore(time.Time{}),
		Profiles: liveProfiles(),
		Policy:   stubPolicy{allow: true},
	}

	ok, err := ledger.HasAllDataFields(context.Background(), testDappAddress, testPersonaAddress, []domain.RequiredField{
		{Kind: domain.FieldKindName, NumberOfValues: domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierExactly}},
		{Kind: domain.FieldKindEmailAddress, NumberOfValues: domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierExactly}},
	})
	if err != nil {
		t.Fatalf("has all data fields: %v", err)
	}
	if !ok {
		t.Fatalf("expected both fields covered")
	}
}

func TestHasAllDataFields_DeletedEntriesNoLongerCount(t *testing.T) {
	profiles := liveProfiles()
	persona := profiles.personas[testPersonaAddress]
	// The email entry was granted but later removed from the persona.
	persona.Data.Entries = persona.Data.Entries[:1]
	profiles.personas[testPersonaAddress] = persona

	ledger := &GrantLedger{
		Store:    grantedStore(time.Time{}),
		Profiles: profiles,
		Policy:   stubPolicy{allow: true},
	}

	ok, err := ledger.HasAllDataFields(context.Background(), testDappAddress, testPersonaAddress, []domain.RequiredField{
		{Kind: domain.FieldKindEmailAddress, NumberOfValues: domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierExactly}},
	})
	if err != nil {
		t.Fatalf("has all data fields: %v", err)
	}
	if ok {
		t.Fatalf("deleted entries must not satisfy a requirement")
	}
}

func TestHasAllDataFields_QuantityShortfall(t *testing.T) {
	ledger := &GrantLedger{
		Store:    grantedStore(time.Time{}),
		Profiles: liveProfiles(),
		Policy:   stubPolicy{allow: true},
	}

	ok, err := ledger.HasAllDataFields(context.Background(), testDappAddress, testPersonaAddress, []domain.RequiredField{
		{Kind: domain.FieldKindEmailAddress, NumberOfValues: domain.NumberOfValues{Quantity: 2, Quantifier: domain.QuantifierAtLeast}},
	})
	if err != nil {
		t.Fatalf("has all data fields: %v", err)
	}
	if ok {
		t.Fatalf("one granted email must not satisfy a requirement for two")
	}
}

func TestBumpLastLogin_OnlyMatchingPersona(t *testing.T) {
	other := domain.AuthorizedPersonaSimple{
		IdentityAddress: "identity_rdx1_bob",
		LastLogin:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	store := grantedStore(time.Time{})
	dapp := store.dapps[testDappAddress]
	dapp.Personas = append(dapp.Personas, other)

	ledger := &GrantLedger{Store: store, Profiles: liveProfiles(), Policy: stubPolicy{allow: true}}
	updated := ledger.BumpLastLogin(dapp, testPersonaAddress, testNow)

	if !updated.PersonaByAddress(testPersonaAddress).LastLogin.Equal(testNow) {
		t.Fatalf("matching persona must be bumped")
	}
	if !updated.PersonaByAddress(other.IdentityAddress).LastLogin.Equal(other.LastLogin) {
		t.Fatalf("other personas must be untouched")
	}
	if !dapp.PersonaByAddress(testPersonaAddress).LastLogin.IsZero() {
		t.Fatalf("bump must not mutate the input record")
	}

	again := ledger.BumpLastLogin(updated, testPersonaAddress, testNow)
	if !again.PersonaByAddress(testPersonaAddress).LastLogin.Equal(testNow) {
		t.Fatalf("bumping with the same clock must be idempotent")
	}
}

func TestPersistLastLogin_WritesBack(t *testing.T) {
	store := grantedStore(time.Time{})
	ledger := &GrantLedger{Store: store, Profiles: liveProfiles(), Policy: stubPolicy{allow: true}}

	dapp := store.dapps[testDappAddress]
	updated, err := ledger.PersistLastLogin(context.Background(), dapp, testPersonaAddress, testNow)
	if err != nil {
		t.Fatalf("persist last login: %v", err)
	}
	if !updated.PersonaByAddress(testPersonaAddress).LastLogin.Equal(testNow) {
		t.Fatalf("returned record must carry the bump")
	}
	if len(store.puts) != 1 {
		t.Fatalf("expected one write, got %d", len(store.puts))
	}
}
