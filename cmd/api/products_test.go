package main

import (
	"fmt"
	"testing"

	"spotcu/internal/store"
)

func galleryOf(n int) []store.ProductImage {
	images := make([]store.ProductImage, 0, n)
	for i := 0; i < n; i++ {
		images = append(images, store.ProductImage{
			URL: fmt.Sprintf("/uploads/products-%d.jpg", i),
			Key: fmt.Sprintf("products-%d.jpg", i),
		})
	}
	return images
}

func TestDeriveMainImage(t *testing.T) {
	if got := deriveMainImage(nil); got != nil {
		t.Fatalf("deriveMainImage(nil) = %+v, want nil", got)
	}
	if got := deriveMainImage([]store.ProductImage{}); got != nil {
		t.Fatalf("deriveMainImage(empty) = %+v, want nil", got)
	}

	images := galleryOf(3)
	main := deriveMainImage(images)
	if main == nil {
		t.Fatal("deriveMainImage returned nil for non-empty gallery")
	}
	if main.URL != images[0].URL || main.Key != images[0].Key {
		t.Fatalf("main image = %+v, want first element %+v", main, images[0])
	}
}

func TestCapImages(t *testing.T) {
	capped := capImages(galleryOf(7), 5)
	if len(capped) != 5 {
		t.Fatalf("capImages returned %d entries, want 5", len(capped))
	}
	// First entries win
	for i, img := range capped {
		want := fmt.Sprintf("products-%d.jpg", i)
		if img.Key != want {
			t.Fatalf("capped[%d].Key = %q, want %q", i, img.Key, want)
		}
	}

	three := galleryOf(3)
	if got := capImages(three, 5); len(got) != 3 {
		t.Fatalf("capImages shrank a gallery under the cap: %d entries", len(got))
	}
}
