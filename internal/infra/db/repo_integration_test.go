//go:build integration

package db

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"walletlink/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN_TEST"))
	if dsn == "" {
		t.Skip("POSTGRES_DSN_TEST not set")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&AuthorizedDappModel{},
		&AuthorizedPersonaModel{},
		&SharedAccountModel{},
		&SharedPersonaDataEntryModel{},
		&PersonaModel{},
		&PersonaDataEntryModel{},
		&AccountModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{
		"shared_persona_data_entries",
		"shared_accounts",
		"authorized_personas",
		"authorized_dapps",
		"persona_data_entries",
		"personas",
		"accounts",
	} {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s: %v", table, err)
		}
	}
	return gdb
}

func TestDappRepository_RoundTrip(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewDappRepository(gdb)

	lastLogin := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	record := domain.AuthorizedDapp{
		DappDefinitionAddress: "account_rdx1_dapp",
		DisplayName:           "Dashboard",
		Personas: []domain.AuthorizedPersonaSimple{
			{
				IdentityAddress: "identity_rdx1_alice",
				SharedAccounts: &domain.SharedAccounts{
					Request: domain.NumberOfValues{Quantity: 1, Quantifier: domain.QuantifierAtLeast},
					IDs:     []domain.AccountAddress{"account_rdx1_b", "account_rdx1_a"},
				},
				SharedPersonaData: domain.SharedPersonaData{
					EntryIDs: []domain.PersonaDataEntryID{"9f0c2f5e-1111-4222-8333-444455556666"},
				},
				LastLogin: lastLogin,
			},
			{
				IdentityAddress: "identity_rdx1_bob",
				LastLogin:       lastLogin,
			},
		},
	}

	if err := repo.PutAuthorizedDapp(context.Background(), record); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := repo.GetAuthorizedDapp(context.Background(), "account_rdx1_dapp")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DisplayName != "Dashboard" || len(got.Personas) != 2 {
		t.Fatalf("unexpected record %+v", got)
	}
	alice := got.PersonaByAddress("identity_rdx1_alice")
	if alice == nil || alice.SharedAccounts == nil {
		t.Fatalf("alice grant missing: %+v", got)
	}
	// Stored order must survive the round trip.
	if alice.SharedAccounts.IDs[0] != "account_rdx1_b" || alice.SharedAccounts.IDs[1] != "account_rdx1_a" {
		t.Fatalf("shared account order lost: %v", alice.SharedAccounts.IDs)
	}
	if !alice.LastLogin.Equal(lastLogin) {
		t.Fatalf("last login mismatch: %v", alice.LastLogin)
	}
	bob := got.PersonaByAddress("identity_rdx1_bob")
	if bob == nil || bob.SharedAccounts != nil {
		t.Fatalf("bob must have no account grant: %+v", bob)
	}

	// Replacing the record drops stale children.
	record.Personas = record.Personas[:1]
	record.Personas[0].SharedAccounts.IDs = []domain.AccountAddress{"account_rdx1_a"}
	if err := repo.PutAuthorizedDapp(context.Background(), record); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = repo.GetAuthorizedDapp(context.Background(), "account_rdx1_dapp")
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if len(got.Personas) != 1 || len(got.Personas[0].SharedAccounts.IDs) != 1 {
		t.Fatalf("stale children survived replace: %+v", got)
	}
}

func TestDappRepository_MissReturnsNotFound(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewDappRepository(gdb)

	_, err := repo.GetAuthorizedDapp(context.Background(), "account_rdx1_unknown")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileRepository_RoundTrip(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewProfileRepository(gdb)

	if err := gdb.Create(&PersonaModel{IdentityAddress: "identity_rdx1_alice", Label: "Alice"}).Error; err != nil {
		t.Fatalf("seed persona: %v", err)
	}
	entries := []PersonaDataEntryModel{
		{EntryID: "9f0c2f5e-1111-4222-8333-444455556666", IdentityAddress: "identity_rdx1_alice", Ordinal: 1, Kind: "emailAddress", Value: "alice@example.com"},
		{EntryID: "9f0c2f5e-1111-4222-8333-444455557777", IdentityAddress: "identity_rdx1_alice", Ordinal: 0, Kind: "name", Value: "Alice Jones"},
	}
	for _, entry := range entries {
		if err := gdb.Create(&entry).Error; err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}
	if err := gdb.Create(&AccountModel{Address: "account_rdx1_a", Label: "Savings", AppearanceID: 3}).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}

	persona, err := repo.GetCurrentPersona(context.Background(), "identity_rdx1_alice")
	if err != nil {
		t.Fatalf("get persona: %v", err)
	}
	if persona.Label != "Alice" || len(persona.Data.Entries) != 2 {
		t.Fatalf("unexpected persona %+v", persona)
	}
	// Entries come back in ordinal order regardless of insert order.
	if persona.Data.Entries[0].Kind != domain.FieldKindName {
		t.Fatalf("entry order lost: %+v", persona.Data.Entries)
	}

	account, err := repo.GetCurrentAccount(context.Background(), "account_rdx1_a")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Label != "Savings" || account.AppearanceID != 3 {
		t.Fatalf("unexpected account %+v", account)
	}

	if _, err := repo.GetCurrentPersona(context.Background(), "identity_rdx1_missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
