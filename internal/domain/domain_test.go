package domain

import (
	"testing"
	"time"
)

func TestLanguageIDs(t *testing.T) {
	cases := map[Language]int{
		"javascript": 63,
		"python":     78,
		"java":       62,
		"cpp":        54,
		"c":          50,
		"csharp":     51,
		"go":         60,
		"php":        68,
		"ruby":       72,
		"typescript": 74,
	}
	for lang, want := range cases {
		if got := lang.ID(); got != want {
			t.Errorf("%s: expected id %d, got %d", lang, want, got)
		}
	}
}

func TestLanguage_CaseInsensitive(t *testing.T) {
	if Language("  Python ").ID() != 78 {
		t.Error("expected case-insensitive lookup")
	}
	if Language("brainfuck").IsValid() {
		t.Error("expected brainfuck to be unsupported")
	}
	if Language("brainfuck").ID() != 0 {
		t.Error("expected id 0 for unsupported language")
	}
}

func TestLanguageByID(t *testing.T) {
	info, ok := LanguageByID(54)
	if !ok || info.Name != LangCpp {
		t.Errorf("expected cpp for id 54, got %+v", info)
	}
	if _, ok := LanguageByID(999); ok {
		t.Error("expected id 999 to be unknown")
	}
}

func TestSupportedLanguages_ReturnsCopy(t *testing.T) {
	langs := SupportedLanguages()
	if len(langs) != 10 {
		t.Fatalf("expected 10 languages, got %d", len(langs))
	}
	langs[0].ID = -1
	if SupportedLanguages()[0].ID == -1 {
		t.Error("mutating the returned slice must not change the table")
	}
}

func TestStatusCode_IsTerminal(t *testing.T) {
	for code := StatusQueued; code <= StatusRuntimeErrorNonZeroExit; code++ {
		want := code != StatusQueued && code != StatusProcessing
		if code.IsTerminal() != want {
			t.Errorf("status %d: expected terminal=%v", code, want)
		}
	}
}

func TestStatusCode_String(t *testing.T) {
	if StatusTimeLimitExceeded.String() != "Time Limit Exceeded" {
		t.Errorf("unexpected description %q", StatusTimeLimitExceeded.String())
	}
	if StatusCode(42).String() != "Unknown Status" {
		t.Errorf("unexpected description %q", StatusCode(42).String())
	}
}

func TestUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2026-03-02 05:00 at UTC+9 is 2026-03-01 20:00 UTC.
	got := UTCDay(time.Date(2026, 3, 2, 5, 0, 0, 0, loc))
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}
