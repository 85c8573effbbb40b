package domain

import "strings"

// Language is the editor-facing language key, e.g. "python" or "cpp".
type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCpp        Language = "cpp"
	LangC          Language = "c"
	LangCSharp     Language = "csharp"
	LangGo         Language = "go"
	LangPHP        Language = "php"
	LangRuby       Language = "ruby"
	LangTypeScript Language = "typescript"
)

// LanguageInfo describes a supported language and its execution-service id.
type LanguageInfo struct {
	Name      Language `json:"name"`
	ID        int      `json:"id"`
	Display   string   `json:"display"`
	Extension string   `json:"extension"`
}

// supportedLanguages is the single source of the name -> Judge0 id mapping.
// Both the run and submit paths resolve languages through it.
var supportedLanguages = []LanguageInfo{
	{Name: LangC, ID: 50, Display: "C", Extension: "c"},
	{Name: LangCpp, ID: 54, Display: "C++", Extension: "cpp"},
	{Name: LangCSharp, ID: 51, Display: "C#", Extension: "cs"},
	{Name: LangGo, ID: 60, Display: "Go", Extension: "go"},
	{Name: LangJava, ID: 62, Display: "Java", Extension: "java"},
	{Name: LangJavaScript, ID: 63, Display: "JavaScript", Extension: "js"},
	{Name: LangPython, ID: 78, Display: "Python", Extension: "py"},
	{Name: LangPHP, ID: 68, Display: "PHP", Extension: "php"},
	{Name: LangRuby, ID: 72, Display: "Ruby", Extension: "rb"},
	{Name: LangTypeScript, ID: 74, Display: "TypeScript", Extension: "ts"},
}

// Normalize lower-cases and trims the language key.
func (l Language) Normalize() Language {
	return Language(strings.ToLower(strings.TrimSpace(string(l))))
}

// IsValid checks if the language is supported.
func (l Language) IsValid() bool {
	_, ok := LookupLanguage(l)
	return ok
}

// ID returns the execution-service language id, or 0 when unsupported.
func (l Language) ID() int {
	info, ok := LookupLanguage(l)
	if !ok {
		return 0
	}
	return info.ID
}

// LookupLanguage resolves a language key case-insensitively.
func LookupLanguage(l Language) (LanguageInfo, bool) {
	key := l.Normalize()
	for _, info := range supportedLanguages {
		if info.Name == key {
			return info, true
		}
	}
	return LanguageInfo{}, false
}

// LanguageByID resolves an execution-service language id.
func LanguageByID(id int) (LanguageInfo, bool) {
	for _, info := range supportedLanguages {
		if info.ID == id {
			return info, true
		}
	}
	return LanguageInfo{}, false
}

// SupportedLanguages returns a copy of the supported-language table.
func SupportedLanguages() []LanguageInfo {
	out := make([]LanguageInfo, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}
