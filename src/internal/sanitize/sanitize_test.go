package sanitize

import (
	"net/url"
	"testing"
	"unicode/utf8"
)

func TestCleanString(t *testing.T) {
	in := "  \tHello\x00World\n  "
	out := CleanString(in, 100)
	if out != "HelloWorld" {
		t.Fatalf("CleanString unexpected: %q", out)
	}
	if s := CleanString("abcdef", 3); s != "abc" {
		t.Fatalf("CleanString truncation: want 'abc', got %q", s)
	}
	if !utf8.ValidString(out) {
		t.Fatalf("CleanString produced invalid utf8")
	}
}

func TestCleanStringNormalizesToNFC(t *testing.T) {
	decomposed := "Angélique"
	if got := CleanString(decomposed, 0); got != "Angélique" {
		t.Fatalf("CleanString NFC: got %q", got)
	}
}

func TestCleanURL(t *testing.T) {
	if CleanURL("") != "" {
		t.Fatalf("CleanURL empty should be empty")
	}
	if CleanURL("not a url") != "" {
		t.Fatalf("CleanURL invalid should be empty")
	}
	u := CleanURL("https://example.com/a b")
	if _, err := url.Parse(u); err != nil {
		t.Fatalf("CleanURL not parseable: %v", err)
	}
	if CleanURL("ftp://x") != "" {
		t.Fatalf("only http/https allowed")
	}
}

func TestCleanList(t *testing.T) {
	out := CleanList([]string{" A ", "", "\x00", "A", "B"})
	if len(out) != 3 || out[0] != "A" || out[1] != "A" || out[2] != "B" {
		t.Fatalf("CleanList: %v", out)
	}
	if CleanList([]string{" ", ""}) != nil {
		t.Fatalf("CleanList all empty should be nil")
	}
}
