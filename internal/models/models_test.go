package models

import "testing"

func TestPersisted(t *testing.T) {
	if (User{}).Persisted() {
		t.Fatal("expected a zero id to be unsaved")
	}
	if !(User{ID: 1}).Persisted() {
		t.Fatal("expected an assigned id to be persisted")
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{raw: "1", want: 1, ok: true},
		{raw: "9007199254740993", want: 9007199254740993, ok: true},
		{raw: "0"},
		{raw: "-4"},
		{raw: "abc"},
		{raw: ""},
		{raw: "1.5"},
	}

	for _, tc := range tests {
		got, ok := ParseUserID(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseUserID(%q) = %d, %v; want %d, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatUserIDRoundTrips(t *testing.T) {
	id, ok := ParseUserID(FormatUserID(42))
	if !ok || id != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", id, ok)
	}
}
