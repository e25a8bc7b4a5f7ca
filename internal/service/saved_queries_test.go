package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"searchadmin/internal/entity"
	"searchadmin/internal/entity/common"
)

func setupQueryFixture(t *testing.T) *Services {
	t.Helper()
	svc, _ := setupServices(t)
	mustCreateUser(t, svc, "sa")
	mustCreateSettings(t, svc, "General email", "sa")
	return svc
}

func TestSavedQueryCreateExample(t *testing.T) {
	svc := setupQueryFixture(t)
	ctx := context.Background()

	query, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
		Name:         "first",
		OwnerName:    "sa",
		SettingsName: "General email",
		Index:        "email",
		Query:        matchAll("958879878"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if head := query.RequestHead(); head != "GET email/_search" {
		t.Errorf("unexpected head %q", head)
	}
	id := query.RequestID()
	if id != "d86b5a4cfae48ee3803eff71f7185d4c" {
		t.Errorf("unexpected request id %q", id)
	}
	if again := query.RequestID(); again != id {
		t.Errorf("request id changed between calls: %q vs %q", id, again)
	}

	loaded, err := svc.Queries.FindByName(ctx, "first")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.RequestID() != id || loaded.Fingerprint != id {
		t.Errorf("expected persisted fingerprint %q, got %q / %q", id, loaded.RequestID(), loaded.Fingerprint)
	}
	if !loaded.Query.Equal(matchAll("958879878")) {
		t.Errorf("expected body stored verbatim, got %s", loaded.Query)
	}
	if loaded.Owner.Name != "sa" || loaded.PageSettings.Name != "General email" {
		t.Errorf("unexpected references: %s", loaded)
	}
}

func TestSavedQueryCreateErrors(t *testing.T) {
	svc := setupQueryFixture(t)
	ctx := context.Background()
	if _, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
		Name: "first", OwnerName: "sa", SettingsName: "General email", Index: "email", Query: matchAll("1"),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name    string
		params  CreateSavedQueryParams
		wantErr error
	}{
		{name: "duplicate", params: CreateSavedQueryParams{Name: "first", OwnerName: "sa", SettingsName: "General email", Index: "mbox", Query: matchAll("2")}, wantErr: entity.ErrConstraintViolation},
		{name: "unknown owner", params: CreateSavedQueryParams{Name: "second", OwnerName: "ghost", SettingsName: "General email", Index: "email", Query: matchAll("2")}, wantErr: entity.ErrNotFound},
		{name: "unknown settings", params: CreateSavedQueryParams{Name: "second", OwnerName: "sa", SettingsName: "Nope", Index: "email", Query: matchAll("2")}, wantErr: entity.ErrNotFound},
		{name: "nil body", params: CreateSavedQueryParams{Name: "second", OwnerName: "sa", SettingsName: "General email", Index: "email"}, wantErr: entity.ErrInvalidInput},
		{name: "empty index", params: CreateSavedQueryParams{Name: "second", OwnerName: "sa", SettingsName: "General email", Query: matchAll("2")}, wantErr: entity.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Queries.Create(ctx, tt.params); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	list, err := svc.Queries.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Meta.Total != 1 {
		t.Fatalf("expected no partial writes, got %d queries", list.Meta.Total)
	}
	if list.Queries[0].Index != "email" {
		t.Errorf("expected original untouched, got index %q", list.Queries[0].Index)
	}
}

func TestSavedQueryStoresIndexAndDocTypeVerbatim(t *testing.T) {
	svc := setupQueryFixture(t)
	ctx := context.Background()
	created, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
		Name: "padded", OwnerName: "sa", SettingsName: "General email", Index: "email", DocType: "  ", Query: matchAll("958879878"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.DocType != "  " || created.RequestHead() != "GET email/  /_search" {
		t.Fatalf("expected doc type kept verbatim, got %q (%s)", created.DocType, created.RequestHead())
	}

	if _, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
		Name: "plain", OwnerName: "sa", SettingsName: "General email", Index: "email", Query: matchAll("958879878"),
	}); err != nil {
		t.Fatalf("create plain: %v", err)
	}
	docType := "  "
	updated, err := svc.Queries.Update(ctx, "plain", entity.SavedQueryUpdates{DocType: &docType})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.RequestHead() != created.RequestHead() || updated.Fingerprint != created.Fingerprint {
		t.Errorf("expected create and update to agree, got %q/%s vs %q/%s",
			created.RequestHead(), created.Fingerprint, updated.RequestHead(), updated.Fingerprint)
	}

	spaced, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
		Name: "spaced", OwnerName: "sa", SettingsName: "General email", Index: " email ", Query: matchAll("958879878"),
	})
	if err != nil {
		t.Fatalf("create spaced: %v", err)
	}
	reloaded, err := svc.Queries.FindByName(ctx, "spaced")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if reloaded.Index != " email " || reloaded.Fingerprint != spaced.Fingerprint {
		t.Errorf("expected index kept verbatim, got %q", reloaded.Index)
	}

	for _, index := range []string{"", "   "} {
		idx := index
		if _, err := svc.Queries.Update(ctx, "plain", entity.SavedQueryUpdates{Index: &idx}); !errors.Is(err, entity.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for index %q, got %v", index, err)
		}
	}
}

func TestSavedQueryKeepsLargeIntegers(t *testing.T) {
	svc := setupQueryFixture(t)
	ctx := context.Background()
	var ids []string
	for i, raw := range []string{
		`{"query":{"term":{"doc_id":9007199254740993}}}`,
		`{"query":{"term":{"doc_id":9007199254740992}}}`,
	} {
		body, err := entity.ParseDocument([]byte(raw))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		q, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
			Name: fmt.Sprintf("doc-%d", i), OwnerName: "sa", SettingsName: "General email", Index: "email", Query: body,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, q.Fingerprint)
	}
	if ids[0] == ids[1] {
		t.Fatalf("expected distinct fingerprints, both are %s", ids[0])
	}

	reloaded, err := svc.Queries.FindByName(ctx, "doc-0")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := string(reloaded.Query.Canonical()); got != `{"query":{"term":{"doc_id":9007199254740993}}}` {
		t.Errorf("expected body stored verbatim, got %s", got)
	}
	if reloaded.RequestID() != ids[0] {
		t.Errorf("expected recomputed fingerprint %s, got %s", ids[0], reloaded.RequestID())
	}
}

func TestSavedQueryUpdateRecomputesFingerprint(t *testing.T) {
	svc := setupQueryFixture(t)
	ctx := context.Background()
	created, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
		Name: "first", OwnerName: "sa", SettingsName: "General email", Index: "email", Query: matchAll("958879878"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	docType := "message"
	updated, err := svc.Queries.Update(ctx, "first", entity.SavedQueryUpdates{DocType: &docType})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.RequestHead() != "GET email/message/_search" {
		t.Errorf("unexpected head %q", updated.RequestHead())
	}
	if updated.Fingerprint == created.Fingerprint || updated.Fingerprint != "3e89a4bdac92eda110e1dae3b066c770" {
		t.Errorf("unexpected fingerprint %q", updated.Fingerprint)
	}

	matches, err := svc.Queries.FindByRequestID(ctx, updated.Fingerprint)
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected lookup by fingerprint, got %d (%v)", len(matches), err)
	}

	body := entity.Document{"size": common.Int(10)}
	replaced, err := svc.Queries.Update(ctx, "first", entity.SavedQueryUpdates{Query: &body})
	if err != nil {
		t.Fatalf("replace body: %v", err)
	}
	if _, ok := replaced.Query["query"]; ok {
		t.Errorf("expected body to be replaced rather than merged, got %s", replaced.Query)
	}

	empty := ""
	if _, err := svc.Queries.Update(ctx, "first", entity.SavedQueryUpdates{Index: &empty}); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSavedQueryMoveAndList(t *testing.T) {
	svc := setupQueryFixture(t)
	ctx := context.Background()
	mustCreateSettings(t, svc, "Mailbox", "sa")
	for _, name := range []string{"first", "second"} {
		if _, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
			Name: name, OwnerName: "sa", SettingsName: "General email", Index: "email", Query: matchAll(name),
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	moved, err := svc.Queries.MoveToSettings(ctx, "second", "Mailbox")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.PageSettings == nil || moved.PageSettings.Name != "Mailbox" {
		t.Errorf("expected Mailbox, got %s", moved)
	}
	if _, err := svc.Queries.MoveToSettings(ctx, "second", "Nope"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	list, err := svc.Queries.ListByOwner(ctx, "sa", entity.BaseParams{SortBy: "name"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(list.Queries))
	}
	second := list.Queries[1]
	if second.Name != "second" || second.Owner != "sa" || second.PageSettings != "Mailbox" {
		t.Errorf("unexpected view %+v", second)
	}
	if second.RequestHead != "GET email/_search" || len(second.RequestID) != 32 {
		t.Errorf("unexpected derived fields %+v", second)
	}
}

func TestSavedQueryDelete(t *testing.T) {
	svc := setupQueryFixture(t)
	ctx := context.Background()
	if _, err := svc.Queries.Create(ctx, CreateSavedQueryParams{
		Name: "first", OwnerName: "sa", SettingsName: "General email", Index: "email", Query: matchAll("1"),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Queries.Delete(ctx, "first"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Queries.Delete(ctx, "first"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// owner and settings are free to go once nothing references them
	if err := svc.PageSettings.Delete(ctx, "General email"); err != nil {
		t.Fatalf("delete settings: %v", err)
	}
	if err := svc.Users.Delete(ctx, "sa"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
}
