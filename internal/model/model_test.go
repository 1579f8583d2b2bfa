package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawCase
		want    CaseItem
		wantErr error
	}{
		{
			name: "full record",
			raw: RawCase{
				ID:            "as",
				Title:         "Aortic Stenosis",
				Category:      "systolic",
				Buzzwords:     []string{"harsh crescendo-decrescendo", "radiates to carotids"},
				TeachingPearl: "Soft S2 suggests severity.",
				AudioRef:      "static/sounds/as.mp3",
			},
			want: CaseItem{
				ID:            "as",
				Title:         "Aortic Stenosis",
				Category:      "systolic",
				Buzzwords:     []string{"harsh crescendo-decrescendo", "radiates to carotids"},
				TeachingPearl: "Soft S2 suggests severity.",
				AudioRef:      "static/sounds/as.mp3",
			},
		},
		{
			name: "missing optional fields",
			raw:  RawCase{ID: "x", Title: "X"},
			want: CaseItem{ID: "x", Title: "X"},
		},
		{
			name: "whitespace trimmed and empty buzzwords dropped",
			raw: RawCase{
				ID:        "  mr ",
				Title:     " Mitral Regurgitation ",
				Buzzwords: []string{" holosystolic at apex ", "", "  "},
			},
			want: CaseItem{
				ID:        "mr",
				Title:     "Mitral Regurgitation",
				Buzzwords: []string{"holosystolic at apex"},
			},
		},
		{
			name: "id only",
			raw:  RawCase{ID: "vsd"},
			want: CaseItem{ID: "vsd"},
		},
		{
			name: "title only",
			raw:  RawCase{Title: "Mitral Stenosis"},
			want: CaseItem{Title: "Mitral Stenosis"},
		},
		{
			name:    "missing both id and title",
			raw:     RawCase{Category: "systolic", TeachingPearl: "pearl"},
			wantErr: ErrInvalidCase,
		},
		{
			name:    "whitespace-only id and title",
			raw:     RawCase{ID: "  ", Title: " "},
			wantErr: ErrInvalidCase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Normalize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCaseItemSeed(t *testing.T) {
	withID := CaseItem{ID: "as", Title: "Aortic Stenosis"}
	if got := withID.Seed(); got != "as" {
		t.Errorf("Seed() = %q, want 'as'", got)
	}

	titleOnly := CaseItem{Title: "Aortic Stenosis"}
	if got := titleOnly.Seed(); got != "Aortic Stenosis" {
		t.Errorf("Seed() = %q, want title fallback", got)
	}
}

func TestCaseBankLookup(t *testing.T) {
	bank := CaseBank{
		{ID: "as", Title: "Aortic Stenosis"},
		{ID: "mr", Title: "Mitral Regurgitation"},
		{ID: "", Title: "Unlabeled Murmur"},
	}

	t.Run("by id", func(t *testing.T) {
		it, ok := bank.Lookup("mr", "")
		if !ok || it.Title != "Mitral Regurgitation" {
			t.Errorf("Lookup by id = (%+v, %v)", it, ok)
		}
	})

	t.Run("by title", func(t *testing.T) {
		it, ok := bank.Lookup("", "Unlabeled Murmur")
		if !ok || it.Title != "Unlabeled Murmur" {
			t.Errorf("Lookup by title = (%+v, %v)", it, ok)
		}
	})

	t.Run("id wins over title", func(t *testing.T) {
		it, ok := bank.Lookup("as", "Mitral Regurgitation")
		if !ok || it.ID != "as" {
			t.Errorf("Lookup should resolve by id first, got %+v", it)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, ok := bank.Lookup("nope", "Nope"); ok {
			t.Error("Lookup should report no match")
		}
	})

	t.Run("empty keys", func(t *testing.T) {
		if _, ok := bank.Lookup("", ""); ok {
			t.Error("Lookup with empty keys should not match")
		}
	})
}
