package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pet-care-log/internal/domain/actions"
)

func TestActionRepo_ListSince_StableOrderOnEqualTimestamps(t *testing.T) {
	repo := NewActionRepo()
	ctx := context.Background()

	ts := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		err := repo.Create(ctx, actions.Action{
			ID:        fmt.Sprintf("a-%d", i),
			PetID:     "pet-1",
			UserID:    "user-1",
			Timestamp: ts,
			CreatedAt: ts.Add(time.Duration(i) * time.Millisecond),
		})
		if err != nil {
			t.Fatalf("Create a-%d: %v", i, err)
		}
	}

	first, err := repo.ListSince(ctx, "pet-1", ts.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSince #1: %v", err)
	}
	second, err := repo.ListSince(ctx, "pet-1", ts.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSince #2: %v", err)
	}

	if len(first) != 8 || len(second) != 8 {
		t.Fatalf("expected 8 actions, got %d and %d", len(first), len(second))
	}
	// dos lecturas sin mutación en el medio: mismo orden exacto
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order changed between calls at pos %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
	// empate de timestamp: gana created_at más reciente
	for i := range first {
		want := fmt.Sprintf("a-%d", 7-i)
		if first[i].ID != want {
			t.Fatalf("pos %d: expected %s, got %s", i, want, first[i].ID)
		}
	}
}

func TestActionRepo_ListSince_TimestampDescThenCut(t *testing.T) {
	repo := NewActionRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := []actions.Action{
		{ID: "old", PetID: "pet-1", UserID: "u", Timestamp: base.Add(-time.Minute), CreatedAt: base},
		{ID: "morning", PetID: "pet-1", UserID: "u", Timestamp: base.Add(8 * time.Hour), CreatedAt: base},
		{ID: "noon", PetID: "pet-1", UserID: "u", Timestamp: base.Add(12 * time.Hour), CreatedAt: base},
		{ID: "otherpet", PetID: "pet-2", UserID: "u", Timestamp: base.Add(9 * time.Hour), CreatedAt: base},
	}
	for _, a := range rows {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create %s: %v", a.ID, err)
		}
	}

	got, err := repo.ListSince(ctx, "pet-1", base)
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(got) != 2 || got[0].ID != "noon" || got[1].ID != "morning" {
		t.Fatalf("expected [noon morning], got %v", idsOf(got))
	}
}

func idsOf(items []actions.Action) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}
