package mockapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/mockapi"

	"go.uber.org/zap"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := mockapi.LoadSeed(mockapi.DefaultSeed())
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	srv := httptest.NewServer(mockapi.NewServer(store, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadSeed_Collections(t *testing.T) {
	store, err := mockapi.LoadSeed(mockapi.DefaultSeed())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{
		"users": true, "submission": true, "environment": true, "region": true,
		"industry": true, "country": true, "color": true, "number-of-employees": true,
	}
	for _, name := range store.Collections() {
		delete(want, name)
	}
	if len(want) != 0 {
		t.Errorf("missing collections: %v", want)
	}
}

func TestLoadSeed_Invalid(t *testing.T) {
	if _, err := mockapi.LoadSeed([]byte("users: {not: [a list")); err == nil {
		t.Error("expected parse error")
	}
}

func TestServer_FilterUsersByEmail(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/users?email=admin@financehub.com")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var users []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0]["password"] != "password123" {
		t.Errorf("unexpected users: %v", users)
	}

	resp2, err := http.Get(srv.URL + "/users?email=nobody@financehub.com")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var none []map[string]any
	_ = json.NewDecoder(resp2.Body).Decode(&none)
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty array, got %v", none)
	}
}

func TestServer_PostAndList(t *testing.T) {
	srv := newServer(t)

	body, _ := json.Marshal(map[string]any{"userId": "1", "labels": []any{}})
	resp, err := http.Post(srv.URL+"/submission", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&created)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected generated id")
	}

	get, err := http.Get(srv.URL + "/submission/" + id)
	if err != nil {
		t.Fatal(err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", get.StatusCode)
	}

	list, err := http.Get(srv.URL + "/submission?userId=2")
	if err != nil {
		t.Fatal(err)
	}
	defer list.Body.Close()
	var subs []map[string]any
	_ = json.NewDecoder(list.Body).Decode(&subs)
	if len(subs) != 0 {
		t.Errorf("filter should exclude other users, got %v", subs)
	}
}

func TestServer_UnknownCollection(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/planets")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
