package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a_b", `a\_b`},
		{"a*b*c", `a\*b\*c`},
		{"[link", `\[link`},
		{"code`", "code\\`"},
		{"so'm", "so'm"},
	}
	for _, tt := range tests {
		got, err := EscapeMarkdown(tt.in, MarkdownV1)
		if err != nil {
			t.Fatalf("EscapeMarkdown(%q, 1): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("EscapeMarkdown(%q, 1) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("a.b-c!d(e)", MarkdownV2)
	if err != nil {
		t.Fatalf("EscapeMarkdown v2: %v", err)
	}
	want := `a\.b\-c\!d\(e\)`
	if got != want {
		t.Errorf("EscapeMarkdown v2 = %q, want %q", got, want)
	}
}

func TestEscapeMarkdownUnsupportedVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Error("expected error for unsupported version")
	}
}
