package main

import (
	"strings"
	"testing"
)

func TestCategorySlug(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Ütü Masası", "utu_masasi"},
		{"Robot Süpürge", "robot_supurge"},
		{"Fırın/Ocak", "firin_ocak"},
		{"Çamaşır Makinesi", "camasir_makinesi"},
		{"  Sehpa  ", "sehpa"},
		{"TV Ünitesi", "tv_unitesi"},
	}

	for _, tc := range cases {
		if got := categorySlug(tc.name); got != tc.want {
			t.Errorf("categorySlug(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCategorySlugDeterministic(t *testing.T) {
	first := categorySlug("Derin Dondurucu")
	for i := 0; i < 10; i++ {
		if got := categorySlug("Derin Dondurucu"); got != first {
			t.Fatalf("categorySlug not deterministic: %q vs %q", got, first)
		}
	}
}

func TestBlogSlug(t *testing.T) {
	slug := blogSlug("Koltuk Takımı Bakımı")

	const wantPrefix = "koltuk-takimi-bakimi-"
	if !strings.HasPrefix(slug, wantPrefix) {
		t.Fatalf("blogSlug prefix = %q, want prefix %q", slug, wantPrefix)
	}

	suffix := strings.TrimPrefix(slug, wantPrefix)
	if len(suffix) != 6 {
		t.Fatalf("blogSlug suffix length = %d, want 6", len(suffix))
	}
	for _, c := range suffix {
		if !strings.ContainsRune(suffixAlphabet, c) {
			t.Fatalf("blogSlug suffix has unexpected character %q", c)
		}
	}

	if other := blogSlug("Koltuk Takımı Bakımı"); other == slug {
		t.Fatalf("two blogSlug calls produced the same slug %q", slug)
	}
}
