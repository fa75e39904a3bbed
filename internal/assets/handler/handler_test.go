package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"nachlass/internal/assets/service"
	"nachlass/internal/assets/store"
	familymodels "nachlass/internal/family/models"
	familyservice "nachlass/internal/family/service"
	familystore "nachlass/internal/family/store"
	id "nachlass/pkg/domain"
	"nachlass/pkg/testutil"
)

type assetsFixture struct {
	router     http.Handler
	family     *familyservice.Service
	universeID id.UniverseID
	adminID    id.MemberID
}

func newAssetsRouter(t *testing.T) assetsFixture {
	t.Helper()
	members := familystore.NewInMemory()
	family := familyservice.New(members)
	svc := service.New(store.NewInMemory(), family)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	universeID := id.NewUniverseID()
	admin := familymodels.NewFamilyMember(universeID, "Anna", "Beispiel", familymodels.RelAdmin, time.Now(), "")
	if err := members.Save(t.Context(), admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return assetsFixture{router: r, family: family, universeID: universeID, adminID: admin.ID}
}

func (f assetsFixture) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, payload)
	req = testutil.WithAuth(req, f.universeID, f.adminID)
	return testutil.DoRequest(f.router, req)
}

func TestAssetLifecycleViaHandlers(t *testing.T) {
	f := newAssetsRouter(t)

	rec := f.do(t, http.MethodPost, "/assets/", map[string]any{
		"type":        "company",
		"name":        "Beispiel GmbH",
		"companyType": "GmbH",
		"country":     "DE",
		"valueCents":  5000000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := testutil.UnmarshalResponse[struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}](t, rec)
	if created.Type != "company" {
		t.Fatalf("expected company asset, got %q", created.Type)
	}

	rec = f.do(t, http.MethodPatch, "/assets/"+created.ID, map[string]any{"valueCents": 7500000})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating asset, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		ValueCents int64 `json:"valueCents"`
		Version    int   `json:"version"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("failed to decode updated asset: %v", err)
	}
	if updated.ValueCents != 7500000 || updated.Version != 2 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	rec = f.do(t, http.MethodGet, "/assets/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing assets, got %d", rec.Code)
	}
	var listing struct {
		Assets []json.RawMessage `json:"assets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if len(listing.Assets) != 1 {
		t.Fatalf("expected one asset, got %d", len(listing.Assets))
	}

	if rec := f.do(t, http.MethodDelete, "/assets/"+created.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting asset, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/assets/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAssetValidationViaHandlers(t *testing.T) {
	f := newAssetsRouter(t)

	if rec := f.do(t, http.MethodPost, "/assets/", map[string]any{"type": "castle", "name": "Burg"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/assets/", map[string]any{"type": "personal"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/assets/not-a-uuid", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid asset id, got %d", rec.Code)
	}
}

func TestInheritancePreviewViaHandler(t *testing.T) {
	f := newAssetsRouter(t)

	heir, err := f.family.AddMember(t.Context(), f.universeID, familyservice.AddMemberRequest{
		FirstName:    "Max",
		LastName:     "Beispiel",
		Relationship: familymodels.RelSon,
		RelatedTo:    f.adminID,
	})
	if err != nil {
		t.Fatalf("failed to add heir: %v", err)
	}

	rec := f.do(t, http.MethodPost, "/assets/", map[string]any{
		"type": "personal", "name": "Stadthaus", "assetType": "Real Estate", "valueCents": 100000000,
	})
	var asset struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&asset); err != nil {
		t.Fatalf("failed to decode asset: %v", err)
	}

	rec = f.do(t, http.MethodGet, "/assets/"+asset.ID+"/inheritance-preview?heir="+heir.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var preview struct {
		TaxClass   int   `json:"taxClass"`
		ValueCents int64 `json:"valueCents"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&preview); err != nil {
		t.Fatalf("failed to decode preview: %v", err)
	}
	if preview.TaxClass != 1 || preview.ValueCents != 100000000 {
		t.Fatalf("unexpected preview: %+v", preview)
	}

	if rec := f.do(t, http.MethodGet, "/assets/"+asset.ID+"/inheritance-preview", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing heir, got %d", rec.Code)
	}
}
