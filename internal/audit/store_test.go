package audit

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"partybot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "audit.db"), slog.Default())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogCommand_Roundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.LogCommand(ctx, domain.CommandRecord{
		Sender: "alice",
		Verb:   "invite",
		Target: "carol",
		Result: domain.ResultAllowed,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	records, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Sender != "alice" || rec.Verb != "invite" || rec.Target != "carol" || rec.Result != domain.ResultAllowed {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("created_at should be populated")
	}
}

func TestRecent_NewestFirstAndLimited(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, sender := range []string{"a", "b", "c"} {
		err := s.LogCommand(ctx, domain.CommandRecord{
			Sender:    sender,
			Verb:      "kick",
			Result:    domain.ResultDenied,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Sender != "c" || records[1].Sender != "b" {
		t.Fatalf("expected newest first, got %+v", records)
	}
}

func TestPrune_RemovesOldRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := domain.CommandRecord{Sender: "a", Verb: "invite", Result: domain.ResultAllowed,
		CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := domain.CommandRecord{Sender: "b", Verb: "invite", Result: domain.ResultAllowed}
	if err := s.LogCommand(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.LogCommand(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned record, got %d", removed)
	}

	records, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Sender != "b" {
		t.Fatalf("expected only the fresh record, got %+v", records)
	}
}
