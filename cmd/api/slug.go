package main

import (
	"crypto/rand"
	"regexp"
	"strings"
)

var turkishFolder = strings.NewReplacer(
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ı", "i",
	"ö", "o",
	"ç", "c",
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases, folds Turkish diacritics and collapses every
// non-alphanumeric run to the separator. Deterministic: the same name
// always yields the same slug.
func slugify(name, sep string) string {
	s := turkishFolder.Replace(strings.ToLower(name))
	s = nonAlnum.ReplaceAllString(s, sep)
	return strings.Trim(s, sep)
}

// categorySlug is the stable subCategory value products reference.
func categorySlug(name string) string {
	return slugify(name, "_")
}

// blogSlug appends a random 6-char suffix so two posts with the same title
// get distinct slugs. The storage layer's unique constraint is the real
// guarantee.
func blogSlug(title string) string {
	return slugify(title, "-") + "-" + randomSuffix(6)
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	for i := range buf {
		buf[i] = suffixAlphabet[int(buf[i])%len(suffixAlphabet)]
	}
	return string(buf)
}
