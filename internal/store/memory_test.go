package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	dom "github.com/Mahran1998/opsflow/internal/domain"
)

func strPtr(s string) *string { return &s }

func statusPtr(s dom.Status) *dom.Status { return &s }

func mustCreate(t *testing.T, s *MemoryStore, title string, desc *string, p dom.Priority) dom.Request {
	t.Helper()
	r, err := s.Create(context.Background(), CreateInput{Title: title, Description: desc, Priority: p})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return r
}

func TestMemoryCreateDefaults(t *testing.T) {
	s := NewMemoryStore()
	r := mustCreate(t, s, "  Fix printer  ", strPtr("  3rd floor  "), dom.PriorityHigh)

	if r.ID != 1 {
		t.Errorf("ID = %d, want 1", r.ID)
	}
	if r.Title != "Fix printer" {
		t.Errorf("Title = %q, want trimmed", r.Title)
	}
	if r.Description == nil || *r.Description != "3rd floor" {
		t.Errorf("Description = %v, want trimmed '3rd floor'", r.Description)
	}
	if r.Status != dom.StatusNew {
		t.Errorf("Status = %s, want New", r.Status)
	}
	if r.Priority != dom.PriorityHigh {
		t.Errorf("Priority = %s, want High", r.Priority)
	}
	if r.Notes != nil {
		t.Errorf("Notes = %v, want absent", r.Notes)
	}
	if r.CreatedAt.IsZero() || r.UpdatedAt.Before(r.CreatedAt) {
		t.Errorf("timestamps: created=%v updated=%v", r.CreatedAt, r.UpdatedAt)
	}
}

func TestMemoryCreateBlankDescriptionStoredAbsent(t *testing.T) {
	s := NewMemoryStore()
	r := mustCreate(t, s, "t", strPtr("   "), dom.PriorityNormal)
	if r.Description != nil {
		t.Errorf("Description = %q, want nil", *r.Description)
	}
}

func TestMemoryCreateValidation(t *testing.T) {
	s := NewMemoryStore()

	tests := []struct {
		name  string
		title string
		desc  *string
		field string
	}{
		{"empty title", "", nil, "title"},
		{"whitespace title", "   ", nil, "title"},
		{"long title", strings.Repeat("a", 121), nil, "title"},
		{"long description", "t", strPtr(strings.Repeat("d", 2001)), "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), CreateInput{Title: tt.title, Description: tt.desc, Priority: dom.PriorityLow})
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(ve.Fields[tt.field]) == 0 {
				t.Errorf("Fields = %v, want key %q", ve.Fields, tt.field)
			}
		})
	}

	// Failed creates must not consume ids or mutate state.
	if list, _ := s.List(context.Background(), ListFilter{}); len(list) != 0 {
		t.Errorf("store has %d records after failed creates, want 0", len(list))
	}
	if r := mustCreate(t, s, "first valid", nil, dom.PriorityLow); r.ID != 1 {
		t.Errorf("first id after failed creates = %d, want 1", r.ID)
	}
}

func TestMemoryGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	created := mustCreate(t, s, "roundtrip", strPtr("desc"), dom.PriorityNormal)

	got, err := s.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != created.ID || got.Title != created.Title || got.Status != created.Status ||
		!got.CreatedAt.Equal(created.CreatedAt) || !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Errorf("Get = %+v, want %+v", got, created)
	}
}

func TestMemoryGetUnknown(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetByID(context.Background(), 42)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if nf.ID != 42 || !strings.Contains(nf.Error(), "42") {
		t.Errorf("NotFoundError = %v, want message referencing id 42", nf)
	}
}

func TestMemoryListStatusFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := mustCreate(t, s, "alpha", nil, dom.PriorityNormal)
	b := mustCreate(t, s, "bravo", nil, dom.PriorityNormal)
	mustCreate(t, s, "charlie", nil, dom.PriorityNormal)

	// Move bravo to Done via the legal path.
	if _, err := s.Update(ctx, b.ID, UpdateInput{Status: statusPtr(dom.StatusInProgress)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Update(ctx, b.ID, UpdateInput{Status: statusPtr(dom.StatusDone)}); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx, ListFilter{Status: statusPtr(dom.StatusNew)})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d records, want the 2 New ones: %+v", len(list), list)
	}
	for _, r := range list {
		if r.Status != dom.StatusNew {
			t.Errorf("record %d has status %s, want New", r.ID, r.Status)
		}
		if r.ID == b.ID {
			t.Errorf("Done record %d leaked into New filter", b.ID)
		}
	}
	_ = a
}

func TestMemoryListSearch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	mustCreate(t, s, "Replace toner", strPtr("Printer on 3rd floor"), dom.PriorityNormal)
	mustCreate(t, s, "Order PRINTER paper", nil, dom.PriorityNormal)
	mustCreate(t, s, "Book meeting room", nil, dom.PriorityNormal)

	tests := []struct {
		name string
		q    string
		want int
	}{
		{"matches title and description", "printer", 2},
		{"case insensitive", "PrInTeR", 2},
		{"blank query matches all", "   ", 3},
		{"no match", "coffee", 0},
		{"absent description is non-match", "floor", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.List(ctx, ListFilter{Query: tt.q})
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != tt.want {
				t.Errorf("List(q=%q) returned %d records, want %d", tt.q, len(list), tt.want)
			}
		})
	}
}

func TestMemoryListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := mustCreate(t, s, "a", nil, dom.PriorityNormal)
	b := mustCreate(t, s, "b", nil, dom.PriorityNormal)
	c := mustCreate(t, s, "c", nil, dom.PriorityNormal)

	// Touch a so it has the freshest updated_at.
	time.Sleep(5 * time.Millisecond)
	if _, err := s.Update(ctx, a.ID, UpdateInput{Notes: strPtr("touched")}); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d records, want 3", len(list))
	}
	if list[0].ID != a.ID {
		t.Errorf("freshest update not first: got id %d, want %d", list[0].ID, a.ID)
	}
	if !sort.SliceIsSorted(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].ID > list[j].ID
	}) {
		t.Errorf("list not ordered by updated_at desc, id desc: %+v", list)
	}
	_, _ = b, c
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("status and notes", func(t *testing.T) {
		s := NewMemoryStore()
		r := mustCreate(t, s, "t", nil, dom.PriorityNormal)

		got, err := s.Update(ctx, r.ID, UpdateInput{
			Status: statusPtr(dom.StatusInProgress),
			Notes:  strPtr("  working on it  "),
		})
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != dom.StatusInProgress {
			t.Errorf("Status = %s, want InProgress", got.Status)
		}
		if got.Notes == nil || *got.Notes != "working on it" {
			t.Errorf("Notes = %v, want trimmed", got.Notes)
		}
		if got.UpdatedAt.Before(r.UpdatedAt) {
			t.Errorf("UpdatedAt went backwards: %v < %v", got.UpdatedAt, r.UpdatedAt)
		}
	})

	t.Run("notes only leaves status", func(t *testing.T) {
		s := NewMemoryStore()
		r := mustCreate(t, s, "t", nil, dom.PriorityNormal)
		got, err := s.Update(ctx, r.ID, UpdateInput{Notes: strPtr("n")})
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != dom.StatusNew {
			t.Errorf("Status = %s, want unchanged New", got.Status)
		}
	})

	t.Run("empty update", func(t *testing.T) {
		s := NewMemoryStore()
		r := mustCreate(t, s, "t", nil, dom.PriorityNormal)
		_, err := s.Update(ctx, r.ID, UpdateInput{})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want *ValidationError", err)
		}
		if len(ve.Fields["body"]) == 0 {
			t.Errorf("Fields = %v, want key body", ve.Fields)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewMemoryStore()
		_, err := s.Update(ctx, 999, UpdateInput{Status: statusPtr(dom.StatusDone)})
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("err = %v, want *NotFoundError even with an invalid payload", err)
		}
	})

	t.Run("terminal state", func(t *testing.T) {
		s := NewMemoryStore()
		r := mustCreate(t, s, "t", nil, dom.PriorityNormal)
		for _, st := range []dom.Status{dom.StatusInProgress, dom.StatusDone} {
			if _, err := s.Update(ctx, r.ID, UpdateInput{Status: statusPtr(st)}); err != nil {
				t.Fatal(err)
			}
		}

		// Reopening a Done record is illegal...
		_, err := s.Update(ctx, r.ID, UpdateInput{Status: statusPtr(dom.StatusInProgress)})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want *ValidationError", err)
		}
		if len(ve.Fields["status"]) == 0 {
			t.Errorf("Fields = %v, want key status", ve.Fields)
		}

		// ...but the Done -> Done no-op succeeds.
		if _, err := s.Update(ctx, r.ID, UpdateInput{Status: statusPtr(dom.StatusDone)}); err != nil {
			t.Errorf("no-op Done -> Done failed: %v", err)
		}
	})

	t.Run("failed update mutates nothing", func(t *testing.T) {
		s := NewMemoryStore()
		r := mustCreate(t, s, "t", nil, dom.PriorityNormal)
		_, err := s.Update(ctx, r.ID, UpdateInput{
			Status: statusPtr(dom.StatusDone), // illegal from New
			Notes:  strPtr("should not stick"),
		})
		if err == nil {
			t.Fatal("expected validation error")
		}
		got, _ := s.GetByID(ctx, r.ID)
		if got.Notes != nil || got.Status != dom.StatusNew || !got.UpdatedAt.Equal(r.UpdatedAt) {
			t.Errorf("record mutated by failed update: %+v", got)
		}
	})
}

func TestMemoryConcurrentCreates(t *testing.T) {
	const n = 100
	s := NewMemoryStore()

	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := s.Create(context.Background(), CreateInput{Title: "concurrent", Priority: dom.PriorityLow})
			if err != nil {
				t.Error(err)
				return
			}
			ids <- r.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct ids, want %d", len(seen), n)
	}
	for id := int64(1); id <= n; id++ {
		if !seen[id] {
			t.Errorf("ids not contiguous: missing %d", id)
		}
	}
}

func TestMemoryConcurrentUpdatesSameRecord(t *testing.T) {
	// Read-modify-write is atomic per record: concurrent transitions out of
	// New can never both apply, so the record ends in exactly one legal state.
	ctx := context.Background()
	s := NewMemoryStore()
	r := mustCreate(t, s, "contended", nil, dom.PriorityNormal)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		st := dom.StatusInProgress
		if i%2 == 0 {
			st = dom.StatusCancelled
		}
		wg.Add(1)
		go func(st dom.Status) {
			defer wg.Done()
			_, _ = s.Update(ctx, r.ID, UpdateInput{Status: &st})
		}(st)
	}
	wg.Wait()

	got, err := s.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status == dom.StatusCancelled {
		return // terminal, nothing could follow
	}
	if got.Status != dom.StatusInProgress {
		t.Errorf("final status = %s, want InProgress or Cancelled", got.Status)
	}
}
