package core

import (
	"reflect"
	"testing"
)

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Wonderful!", "wonderful"},
		{"\"AMAZING\"", "amazing"},
		{"don't", "dont"},
		{"...", ""},
		{"Straße", "strasse"},
		{"ｆｕｌｌ", "full"},
		{"42", "42"},
	}
	for _, tt := range tests {
		if got := NormalizeWord(tt.in); got != tt.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenizeSkipsEmptyTokens(t *testing.T) {
	got := Tokenize("  I feel -- wonderful, today!  ")
	want := []Token{
		{Text: "I", Normalized: "i"},
		{Text: "feel", Normalized: "feel"},
		{Text: "wonderful,", Normalized: "wonderful"},
		{Text: "today!", Normalized: "today"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %#v, want %#v", got, want)
	}
}
