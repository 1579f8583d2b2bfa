package store

import (
	"reflect"
	"testing"

	"github.com/jtown42/heartsoundtutorstatic/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestCase(t *testing.T, s *Store, id, title, category string) {
	t.Helper()
	_, err := s.InsertCase(model.CaseItem{
		ID:            id,
		Title:         title,
		Category:      category,
		Buzzwords:     []string{"buzz one for " + id, "buzz two for " + id},
		TeachingPearl: "pearl for " + id,
		AudioRef:      "static/sounds/" + id + ".mp3",
	})
	if err != nil {
		t.Fatalf("insertTestCase: %v", err)
	}
}

func TestCaseRoundTrip(t *testing.T) {
	s := newTestStore(t)

	count, err := s.CaseCount()
	if err != nil {
		t.Fatalf("CaseCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 cases, got %d", count)
	}

	want := model.CaseItem{
		ID:            "as",
		Title:         "Aortic Stenosis",
		Category:      "systolic",
		Buzzwords:     []string{"harsh crescendo-decrescendo at RUSB", "radiates to carotids"},
		TeachingPearl: "Soft S2 suggests severity.",
		AudioRef:      "static/sounds/as.mp3",
	}
	if _, err := s.InsertCase(want); err != nil {
		t.Fatalf("InsertCase: %v", err)
	}

	cases, err := s.ListCases()
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(cases))
	}
	if !reflect.DeepEqual(cases[0], want) {
		t.Errorf("round trip = %+v, want %+v", cases[0], want)
	}
}

func TestListCasesPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ids := []string{"as", "mr", "vsd", "ms"}
	for _, id := range ids {
		insertTestCase(t, s, id, "Title "+id, "systolic")
	}

	cases, err := s.ListCases()
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases) != len(ids) {
		t.Fatalf("expected %d cases, got %d", len(ids), len(cases))
	}
	for i, id := range ids {
		if cases[i].ID != id {
			t.Errorf("position %d = %q, want %q (insertion order)", i, cases[i].ID, id)
		}
	}
}

func TestBank(t *testing.T) {
	s := newTestStore(t)
	insertTestCase(t, s, "as", "Aortic Stenosis", "systolic")
	insertTestCase(t, s, "ms", "Mitral Stenosis", "diastolic")

	bank, err := s.Bank()
	if err != nil {
		t.Fatalf("Bank: %v", err)
	}
	if len(bank) != 2 {
		t.Fatalf("bank size = %d, want 2", len(bank))
	}

	it, ok := bank.Lookup("ms", "")
	if !ok || it.Title != "Mitral Stenosis" {
		t.Errorf("bank lookup = (%+v, %v)", it, ok)
	}
}

func TestEmptyBuzzwordsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.InsertCase(model.CaseItem{ID: "x", Title: "X"}); err != nil {
		t.Fatalf("InsertCase: %v", err)
	}

	cases, err := s.ListCases()
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases[0].Buzzwords) != 0 {
		t.Errorf("buzzwords = %v, want empty", cases[0].Buzzwords)
	}
}

func TestImportedFileHash(t *testing.T) {
	s := newTestStore(t)

	hash, err := s.GetImportedFileHash("murmurs.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "" {
		t.Fatalf("expected empty hash for unknown file, got %q", hash)
	}

	if err := s.SetImportedFileHash("murmurs.json", "abc123"); err != nil {
		t.Fatalf("SetImportedFileHash: %v", err)
	}
	hash, err = s.GetImportedFileHash("murmurs.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("hash = %q, want abc123", hash)
	}

	// Upsert replaces the recorded hash.
	if err := s.SetImportedFileHash("murmurs.json", "def456"); err != nil {
		t.Fatalf("SetImportedFileHash (update): %v", err)
	}
	hash, _ = s.GetImportedFileHash("murmurs.json")
	if hash != "def456" {
		t.Errorf("hash after update = %q, want def456", hash)
	}
}
