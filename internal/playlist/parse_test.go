package playlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseTvgNameWins(t *testing.T) {
	entries := Parse("#EXTM3U\n#EXTINF:-1 tvg-name=\"X\",Y\nhttp://a\n")
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Name != "X" || entries[0].URL != "http://a" {
		t.Errorf("entry = %+v, want {X http://a}", entries[0])
	}
}

func TestParseCommaName(t *testing.T) {
	entries := Parse("#EXTM3U\n#EXTINF:-1 tvg-id=\"c1\",Channel One\nhttp://one\n")
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Name != "Channel One" {
		t.Errorf("name = %q, want %q", entries[0].Name, "Channel One")
	}
}

func TestParseBareURLList(t *testing.T) {
	entries := Parse("http://a\nhttp://b\n\nhttp://c\n")
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"http://a", "http://b", "http://c"} {
		if entries[i].URL != want {
			t.Errorf("entry %d url = %q, want %q", i, entries[i].URL, want)
		}
		if entries[i].Name != "Pasted Link" {
			t.Errorf("entry %d name = %q, want fallback", i, entries[i].Name)
		}
	}
}

func TestParseSkipsCommentsBetweenInfoAndURL(t *testing.T) {
	text := "#EXTM3U\n#EXTINF:-1,News\n#EXTGRP:tv\n#some comment\nhttp://news\n"
	entries := Parse(text)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].URL != "http://news" {
		t.Errorf("url = %q, want http://news", entries[0].URL)
	}
}

func TestParseDropsEntryWithNoURL(t *testing.T) {
	text := "#EXTM3U\n#EXTINF:-1,Orphan\n#EXTINF:-1,Kept\nhttp://kept\n#EXTINF:-1,Trailing orphan\n"
	entries := Parse(text)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
	if entries[0].Name != "Kept" || entries[0].URL != "http://kept" {
		t.Errorf("entry = %+v, want {Kept http://kept}", entries[0])
	}
}

func TestParseUnnamedFallback(t *testing.T) {
	entries := Parse("#EXTM3U\n#EXTINF:-1\nhttp://x\n")
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Name != "Unnamed Channel" {
		t.Errorf("name = %q, want fallback", entries[0].Name)
	}
}

func TestParseEmpty(t *testing.T) {
	if entries := Parse(""); len(entries) != 0 {
		t.Errorf("got %d entries from empty input, want 0", len(entries))
	}
}

func TestParsePreservesOrder(t *testing.T) {
	text := "#EXTM3U\n" +
		"#EXTINF:-1,A\nhttp://a\n" +
		"#EXTINF:-1,B\nhttp://b\n" +
		"#EXTINF:-1,C\nhttp://c\n"
	entries := Parse(text)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"A", "B", "C"} {
		if entries[i].Name != want {
			t.Errorf("entry %d = %q, want %q", i, entries[i].Name, want)
		}
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#EXTM3U\n#EXTINF:-1,Chan\nhttp://chan\n"))
	}))
	defer srv.Close()

	f := NewFetcherWithClient(srv.Client())
	text, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	entries := Parse(text)
	if len(entries) != 1 || entries[0].Name != "Chan" {
		t.Errorf("parsed entries = %+v", entries)
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFetcherWithClient(srv.Client())
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch returned nil error for 403 response")
	}
}
