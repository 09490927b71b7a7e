package docscan

import "testing"

func TestNormalizeText(t *testing.T) {
	in := "Nama:\tBudi\n\nSantoso   NRP  31102456\n"
	want := "Nama: Budi Santoso NRP 31102456"
	if got := normalizeText(in); got != want {
		t.Fatalf("normalizeText = %q want %q", got, want)
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short", 10); got != "short" {
		t.Fatalf("snippet short = %q", got)
	}
	if got := snippet("0123456789abc", 10); got != "0123456789…" {
		t.Fatalf("snippet long = %q", got)
	}
}
