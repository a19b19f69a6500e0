package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(t.TempDir(), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	return s
}

func TestPutWritesFile(t *testing.T) {
	s := newTestStore(t)

	obj, err := s.Put([]byte("fake image bytes"), "image/png", "product")
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	if !strings.HasPrefix(obj.Key, "product-") {
		t.Fatalf("key = %q, want product- prefix", obj.Key)
	}
	if !strings.HasSuffix(obj.Key, ".png") {
		t.Fatalf("key = %q, want .png extension", obj.Key)
	}
	if obj.URL != URLPrefix+"/"+obj.Key {
		t.Fatalf("url = %q, want %q", obj.URL, URLPrefix+"/"+obj.Key)
	}

	data, err := os.ReadFile(filepath.Join(s.Root(), obj.Key))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Fatalf("stored content = %q", data)
	}
	if !s.Exists(obj.Key) {
		t.Fatal("Exists returned false for a stored object")
	}
}

func TestPutKeysAreUnique(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Put([]byte("a"), "image/jpeg", "product")
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	b, err := s.Put([]byte("b"), "image/jpeg", "product")
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if a.Key == b.Key {
		t.Fatalf("two uploads share key %q", a.Key)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	obj, err := s.Put([]byte("cover"), "image/webp", "blog")
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	if !s.Delete(obj.Key) {
		t.Fatal("first Delete returned false")
	}
	if s.Exists(obj.Key) {
		t.Fatal("object still exists after Delete")
	}
	if s.Delete(obj.Key) {
		t.Fatal("second Delete returned true for a missing object")
	}
	if s.Delete("never-existed.jpg") {
		t.Fatal("Delete of unknown key returned true")
	}
}

func TestCopy(t *testing.T) {
	s := newTestStore(t)

	src, err := s.Put([]byte("original"), "image/png", "product")
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	dup, err := s.Copy(src.Key, "product")
	if err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}
	if dup == nil {
		t.Fatal("Copy returned nil object for an existing source")
	}
	if dup.Key == src.Key {
		t.Fatal("copy shares key with source")
	}

	data, err := os.ReadFile(filepath.Join(s.Root(), dup.Key))
	if err != nil {
		t.Fatalf("reading copy: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("copy content = %q", data)
	}
}

func TestCopyMissingSource(t *testing.T) {
	s := newTestStore(t)

	dup, err := s.Copy("gone.jpg", "product")
	if err != nil {
		t.Fatalf("Copy of missing source returned error: %v", err)
	}
	if dup != nil {
		t.Fatalf("Copy of missing source returned object %+v", dup)
	}
}

func TestExtFromMIME(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":        "jpg",
		"image/png":         "png",
		"image/webp":        "webp",
		"image/gif":         "gif",
		"image/svg+xml":     "svg",
		"image/tiff":        "tiff",
		"image/x-unlisted":  "x-unlisted", // unmapped types keep their subtype
		"not-a-valid-mime":  "jpg",
	}
	for mime, want := range cases {
		if got := extFromMIME(mime); got != want {
			t.Fatalf("extFromMIME(%q) = %q, want %q", mime, got, want)
		}
	}
}
