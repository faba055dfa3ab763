// Package voice maps free-form language tags and voice names onto the
// canonical language codes and voice identifiers the synthesis model ships.
package voice

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// ID identifies one of the bundled voice style profiles.
type ID string

const (
	M1 ID = "M1"
	M2 ID = "M2"
	M3 ID = "M3"
	M4 ID = "M4"
	M5 ID = "M5"
	F1 ID = "F1"
	F2 ID = "F2"
	F3 ID = "F3"
	F4 ID = "F4"
	F5 ID = "F5"
)

const (
	// DefaultID is used whenever a requested voice cannot be matched.
	DefaultID = F1
	// DefaultName is the configured voice when none is given.
	DefaultName = "sarah"
	// DefaultLanguage is the fallback language code.
	DefaultLanguage = "en"
)

var ids = [...]ID{M1, M2, M3, M4, M5, F1, F2, F3, F4, F5}

var languages = [...]string{"en", "ko", "es", "pt", "fr"}

var aliases = map[string]ID{
	"alex":    M1,
	"james":   M2,
	"robert":  M3,
	"sam":     M4,
	"daniel":  M5,
	"sarah":   F1,
	"lily":    F2,
	"jessica": F3,
	"olivia":  F4,
	"emily":   F5,
}

// Entry pairs a human-friendly voice name with its identifier.
type Entry struct {
	Name string
	ID   ID
}

// catalog keeps the alias table in presentation order.
var catalog = [...]Entry{
	{"alex", M1}, {"james", M2}, {"robert", M3}, {"sam", M4}, {"daniel", M5},
	{"sarah", F1}, {"lily", F2}, {"jessica", F3}, {"olivia", F4}, {"emily", F5},
}

// IDs returns every voice identifier.
func IDs() []ID {
	out := make([]ID, len(ids))
	copy(out, ids[:])
	return out
}

// Languages returns the supported language codes.
func Languages() []string {
	out := make([]string, len(languages))
	copy(out, languages[:])
	return out
}

// Catalog returns the voice names with their identifiers.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog[:])
	return out
}

// Valid reports whether id is one of the bundled identifiers.
func (id ID) Valid() bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// IsSupported reports whether code is a supported language code.
func IsSupported(code string) bool {
	for _, l := range languages {
		if l == code {
			return true
		}
	}
	return false
}

// BaseLanguage reduces a tag such as "en-US", "pt_BR" or "zh-Hant-TW" to its
// lowercased base language subtag.
func BaseLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}

	// POSIX locales carry an encoding/modifier suffix: en_US.UTF-8, de_DE@euro
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}

	if t, err := language.Parse(strings.ReplaceAll(tag, "_", "-")); err == nil {
		if base, conf := t.Base(); conf != language.No {
			return strings.ToLower(base.String())
		}
	}

	head, _, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
	return strings.ToLower(head)
}

// ResolveLanguage returns the supported base language for tag, or
// DefaultLanguage. It never logs.
func ResolveLanguage(tag string) string {
	if base := BaseLanguage(tag); IsSupported(base) {
		return base
	}
	return DefaultLanguage
}

// DefaultLanguageFor picks the init-time default language: the configured tag,
// then the host system language, then DefaultLanguage. fellBack is true when a
// non-empty candidate was chosen but is not supported.
func DefaultLanguageFor(configured, system string) (code string, fellBack bool) {
	candidate := configured
	if candidate == "" {
		candidate = system
	}
	if candidate == "" {
		return DefaultLanguage, false
	}

	base := BaseLanguage(candidate)
	if !IsSupported(base) {
		return DefaultLanguage, true
	}
	return base, false
}

// ResolveID maps a voice name or identifier to an ID. Aliases match
// case-insensitively, then identifiers; anything else yields DefaultID.
func ResolveID(name string) ID {
	lower := strings.ToLower(name)
	if id, ok := aliases[lower]; ok {
		return id
	}
	if id := ID(strings.ToUpper(lower)); id.Valid() {
		return id
	}
	return DefaultID
}

// StylePath returns the style profile location for id under voicesDir.
func StylePath(voicesDir string, id ID) string {
	return filepath.Join(voicesDir, string(id)+".json")
}
