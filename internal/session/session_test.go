package session

import (
	"net/http"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"alice", "alice", true},
		{"  bob  ", "bob", true},
		{"[tag]carol", "carol", true},
		{"", "", false},
		{"   ", "", false},
		{"(){}[]*", "", false},
		{strings.Repeat("x", 40), strings.Repeat("x", maxNameLen), true},
	}

	for _, c := range cases {
		got, ok := sanitizeName(c.in)
		if ok != c.wantOK {
			t.Errorf("sanitizeName(%q): ok = %v, want %v", c.in, ok, c.wantOK)
			continue
		}
		if ok && got != c.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeNameStripsControlRunes(t *testing.T) {
	got, ok := sanitizeName("a\x1b[2Jb\x00c")
	if !ok {
		t.Fatalf("expected a salvageable name")
	}
	for _, r := range got {
		if r < 0x20 {
			t.Fatalf("control rune %q survived sanitization in %q", r, got)
		}
	}
}

func TestConnLimiterCeiling(t *testing.T) {
	l := NewConnLimiter(2)

	if !l.TryAcquire("1.2.3.4") || !l.TryAcquire("1.2.3.4") {
		t.Fatalf("acquires under the ceiling should succeed")
	}
	if l.TryAcquire("1.2.3.4") {
		t.Fatalf("acquire past the ceiling should fail")
	}
	if !l.TryAcquire("5.6.7.8") {
		t.Fatalf("a different IP should have its own budget")
	}

	l.Release("1.2.3.4")
	if !l.TryAcquire("1.2.3.4") {
		t.Fatalf("release should free a slot")
	}
}

func TestConnLimiterDisabled(t *testing.T) {
	var nilLimiter *ConnLimiter
	if !nilLimiter.TryAcquire("1.2.3.4") {
		t.Fatalf("a nil limiter should admit everything")
	}
	nilLimiter.Release("1.2.3.4") // must not panic

	l := NewConnLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.TryAcquire("1.2.3.4") {
			t.Fatalf("a non-positive ceiling should disable the limit")
		}
	}
}

func TestSourceIP(t *testing.T) {
	cases := []struct {
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"10.0.0.1:5050", "", "10.0.0.1"},
		{"10.0.0.1:5050", "203.0.113.9", "203.0.113.9"},
		{"10.0.0.1:5050", "not-an-ip", "10.0.0.1"},
		{"[::1]:5050", "", "::1"},
	}

	for _, c := range cases {
		r := &http.Request{RemoteAddr: c.remoteAddr, Header: http.Header{}}
		if c.forwarded != "" {
			r.Header.Set("X-Forwarded-For", c.forwarded)
		}
		if got := sourceIP(r); got != c.want {
			t.Errorf("sourceIP(remote=%q fwd=%q) = %q, want %q", c.remoteAddr, c.forwarded, got, c.want)
		}
	}
}
