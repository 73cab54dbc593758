package photos

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsSource(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo1.jpg", true},
		{"photo12.jpeg", true},
		{"photo3.png", true},
		{"photo4.webp", true},
		{"PHOTO5.JPG", true},
		{"Photo6.WebP", true},
		{"photo007.png", true},
		{"photo.jpg", false},
		{"photo1.gif", false},
		{"photo1.jpg.bak", false},
		{"myphoto1.jpg", false},
		{".photo1.jpg", false},
		{"notes.txt", false},
		{"photo1a.jpg", false},
		{"photo1.webp.webp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSource(tt.name); got != tt.want {
				t.Errorf("IsSource(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestThumbName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo1.png", "photo1.webp"},
		{"photo2.webp", "photo2.webp"},
		{"photo3.jpg", "photo3.webp"},
		{"photo4.jpeg", "photo4.webp"},
		{"PHOTO5.JPG", "PHOTO5.webp"},
		{"photo6.WEBP", "photo6.WEBP"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ThumbName(tt.in)
			if got != tt.want {
				t.Errorf("ThumbName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if Stem(got) != Stem(tt.in) {
				t.Errorf("stem changed: %q -> %q", Stem(tt.in), Stem(got))
			}
		})
	}
}

func TestIndex(t *testing.T) {
	n, ok := Index("photo42.jpg")
	if !ok || n != 42 {
		t.Errorf("Index(photo42.jpg) = %d, %v; want 42, true", n, ok)
	}

	if _, ok := Index("notes.txt"); ok {
		t.Error("Index(notes.txt) should not match")
	}

	n, ok = Index("photo99999999999999999999999.png")
	if !ok || n != -1 {
		t.Errorf("Index(overflow) = %d, %v; want -1, true", n, ok)
	}
}

func TestList_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	names := []string{"photo10.jpg", "photo2.png", "notes.txt", "photo1.webp", ".photo3.jpg", "cover.jpg"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	// A directory that matches the pattern must be ignored
	if err := os.Mkdir(filepath.Join(dir, "photo7.jpg"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	sources, err := List(dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"photo1.webp", "photo2.png", "photo10.jpg"}
	if len(sources) != len(want) {
		t.Fatalf("List() returned %d sources, want %d: %+v", len(sources), len(want), sources)
	}
	for i, name := range want {
		if sources[i].Name != name {
			t.Errorf("sources[%d].Name = %q, want %q", i, sources[i].Name, name)
		}
		if sources[i].Path != filepath.Join(dir, name) {
			t.Errorf("sources[%d].Path = %q", i, sources[i].Path)
		}
	}
}

func TestList_MissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("List() on missing directory should fail")
	}
}

func TestExpected(t *testing.T) {
	sources := []Source{{Name: "photo1.png"}, {Name: "photo2.webp"}}
	got := Expected(sources)
	if _, ok := got["photo1.webp"]; !ok {
		t.Error("Expected() missing photo1.webp")
	}
	if _, ok := got["photo2.webp"]; !ok {
		t.Error("Expected() missing photo2.webp")
	}
	if len(got) != 2 {
		t.Errorf("Expected() len = %d, want 2", len(got))
	}
}
