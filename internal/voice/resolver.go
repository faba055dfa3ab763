package voice

import "strings"

// Resolution is a normalized request: canonical language, voice and the
// style profile to load.
type Resolution struct {
	Language  string
	Voice     ID
	StylePath string
}

// Resolver applies the plugin defaults to per-request language and voice.
type Resolver struct {
	voicesDir    string
	defaultLang  string
	defaultVoice string
}

// NewResolver creates a Resolver. defaultLang should already be a supported
// code; defaultVoice is any name or identifier.
func NewResolver(voicesDir, defaultLang, defaultVoice string) *Resolver {
	if !IsSupported(defaultLang) {
		defaultLang = DefaultLanguage
	}
	if defaultVoice == "" {
		defaultVoice = DefaultName
	}

	return &Resolver{
		voicesDir:    voicesDir,
		defaultLang:  defaultLang,
		defaultVoice: strings.ToLower(defaultVoice),
	}
}

// Resolve normalizes lang and name, substituting the defaults for empty
// values. It never fails.
func (r *Resolver) Resolve(lang, name string) Resolution {
	if lang == "" {
		lang = r.defaultLang
	}
	if name == "" {
		name = r.defaultVoice
	}

	id := ResolveID(name)
	return Resolution{
		Language:  ResolveLanguage(lang),
		Voice:     id,
		StylePath: StylePath(r.voicesDir, id),
	}
}

// VoicesDir returns the directory style profiles are read from.
func (r *Resolver) VoicesDir() string {
	return r.voicesDir
}

// DefaultLanguage returns the language used when a request names none.
func (r *Resolver) DefaultLanguage() string {
	return r.defaultLang
}

// DefaultVoice returns the voice used when a request names none.
func (r *Resolver) DefaultVoice() string {
	return r.defaultVoice
}
