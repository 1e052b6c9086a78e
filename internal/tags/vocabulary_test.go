package tags

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultVocabulary(t *testing.T) {
	v := DefaultVocabulary()

	if v.Genres.Len() < 100 || v.Genres.Len() > 150 {
		t.Errorf("Genres.Len() = %d, expected 100-150", v.Genres.Len())
	}
	if v.Themes.Len() < 100 || v.Themes.Len() > 150 {
		t.Errorf("Themes.Len() = %d, expected 100-150", v.Themes.Len())
	}
	if !v.Genres.Contains("Roguelike") {
		t.Error("expected Roguelike in genres")
	}
	if !v.Themes.Contains("Cyberpunk") {
		t.Error("expected Cyberpunk in themes")
	}
	if v.Genres.Labels()[0] != "Action RPG" {
		t.Errorf("first genre = %q, expected vocabulary order", v.Genres.Labels()[0])
	}
}

func TestParseVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "Valid", data: "genres: [Roguelike, Survival]\nthemes: [Horror]\n"},
		{name: "Missing themes", data: "genres: [Roguelike]\n", wantErr: true},
		{name: "Duplicate genre", data: "genres: [Roguelike, Roguelike]\nthemes: [Horror]\n", wantErr: true},
		{name: "Separator in label", data: "genres: [\"A|B\"]\nthemes: [Horror]\n", wantErr: true},
		{name: "Padded label", data: "genres: [\" Roguelike\"]\nthemes: [Horror]\n", wantErr: true},
		{name: "Not YAML", data: "genres: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVocabulary([]byte(tt.data))
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if _, err := ParseVocabulary([]byte("genres: []\nthemes: []\n")); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("expected ErrEmptyVocabulary, got %v", err)
	}
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	if err := os.WriteFile(path, []byte("genres: [Roguelike]\nthemes: [Horror, Space]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Genres.Len() != 1 || v.Themes.Len() != 2 {
		t.Errorf("got %d genres, %d themes", v.Genres.Len(), v.Themes.Len())
	}

	if _, err := LoadVocabulary(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing vocabulary file")
	}
}
