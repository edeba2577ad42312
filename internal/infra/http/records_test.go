package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDappRecordEndpoints_RoundTrip(t *testing.T) {
	server := newTestServer(t)

	record := authorizedDappRecord{
		DisplayName: "Exchange",
		Personas: []authorizedPersonaRecord{
			{
				IdentityAddress: "identity_rdx1_alice",
				SharedAccounts: &sharedAccountsRecord{
					Request: numberOfValues{Quantity: 2, Quantifier: "exactly"},
					IDs:     []string{"account_rdx1_a", "account_rdx1_b"},
				},
				SharedPersonaData: []string{"entry-email"},
				LastLogin:         "2026-03-14T09:30:00Z",
			},
		},
	}

	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/dapps/account_rdx1_exchange", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	server.r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/dapps/account_rdx1_exchange", nil)
	server.r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got authorizedDappRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.DappDefinitionAddress != "account_rdx1_exchange" || got.DisplayName != "Exchange" {
		t.Fatalf("unexpected record %+v", got)
	}
	if len(got.Personas) != 1 || got.Personas[0].SharedAccounts == nil {
		t.Fatalf("persona grant lost in round trip: %+v", got)
	}
	if got.Personas[0].SharedAccounts.IDs[0] != "account_rdx1_a" {
		t.Fatalf("shared account order lost: %v", got.Personas[0].SharedAccounts.IDs)
	}
	if got.Personas[0].LastLogin != "2026-03-14T09:30:00Z" {
		t.Fatalf("last login lost: %q", got.Personas[0].LastLogin)
	}
}

func TestGetDapp_Unknown(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/dapps/account_rdx1_unknown", nil)
	server.r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetPersona(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/personas/identity_rdx1_alice", nil)
	server.r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got personaRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Label != "Alice" {
		t.Fatalf("unexpected persona %+v", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/personas/identity_rdx1_missing", nil)
	server.r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
