package i18n

import "testing"

func newLocalizer(t *testing.T, lang string) *Localizer {
	t.Helper()
	l, err := New(lang)
	if err != nil {
		t.Fatalf("New(%q): %v", lang, err)
	}
	return l
}

func TestTranslateEnglish(t *testing.T) {
	l := newLocalizer(t, "en")

	if got := l.T("QuizTitle"); got != "Arithmetic Quiz Challenge" {
		t.Errorf("T(QuizTitle) = %q, want 'Arithmetic Quiz Challenge'", got)
	}
	if got := l.T("QuizRetry"); got != "Incorrect. Try again!" {
		t.Errorf("T(QuizRetry) = %q, want 'Incorrect. Try again!'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	l := newLocalizer(t, "ru")

	if got := l.T("QuizFinished"); got != "Викторина окончена!" {
		t.Errorf("T(QuizFinished) = %q, want 'Викторина окончена!'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	l := newLocalizer(t, "en")

	if got := l.Tp("JokesLoaded", 1); got != "1 joke loaded." {
		t.Errorf("Tp(JokesLoaded, 1) = %q, want '1 joke loaded.'", got)
	}
	if got := l.Tp("JokesLoaded", 5); got != "5 jokes loaded." {
		t.Errorf("Tp(JokesLoaded, 5) = %q, want '5 jokes loaded.'", got)
	}

	ru := newLocalizer(t, "ru")
	if got := ru.Tp("RecordsDeleted", 5); got != "Удалено 5 студентов." {
		t.Errorf("Tp(RecordsDeleted, 5) = %q", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	l := newLocalizer(t, "en")

	got := l.Td("QuizQuestion", map[string]any{"Number": 3, "Total": 10, "Problem": "4 + 5"})
	if got != "Question 3/10: What is 4 + 5?" {
		t.Errorf("Td(QuizQuestion) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	l := newLocalizer(t, "en")

	if got := l.T("NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestUnsupportedLanguageFallsBack(t *testing.T) {
	l := newLocalizer(t, "de")
	if got := l.T("Goodbye"); got != "Goodbye!" {
		t.Errorf("T(Goodbye) = %q, want English fallback", got)
	}
	if _, err := New("not a tag!"); err == nil {
		t.Error("expected error for malformed tag")
	}
}

func TestBundleLanguages(t *testing.T) {
	b, err := loadBundle()
	if err != nil {
		t.Fatalf("loadBundle: %v", err)
	}
	if n := len(b.LanguageTags()); n != 2 {
		t.Errorf("expected 2 languages, got %d", n)
	}
}
