package onnx

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var languages = []string{"en", "ko", "es", "pt", "fr"}

var emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}` +
	`\x{1F700}-\x{1F77F}\x{1F780}-\x{1F7FF}\x{1F800}-\x{1F8FF}\x{1F900}-\x{1F9FF}` +
	`\x{1FA00}-\x{1FA6F}\x{1FA70}-\x{1FAFF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{1F1E6}-\x{1F1FF}]+`)

var symbolReplacer = strings.NewReplacer(
	"–", "-",
	"‑", "-",
	"—", "-",
	"_", " ",
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"´", "'",
	"`", "'",
	"[", " ",
	"]", " ",
	"|", " ",
	"/", " ",
	"#", " ",
	"→", " ",
	"←", " ",
	"♥", "",
	"☆", "",
	"♡", "",
	"©", "",
	`\`, "",
)

var expressionReplacer = strings.NewReplacer(
	"@", " at ",
	"e.g.,", "for example, ",
	"i.e.,", "that is, ",
)

var punctSpacing = regexp.MustCompile(` ([,.!?;:'])`)

var whitespace = regexp.MustCompile(`\s+`)

// terminators end a sentence already; anything else gets a period.
const terminators = `.!?;:,'")]}…。」』】〉》›»`

// normalizeText prepares raw text for the indexer and wraps it in language
// tags.
func normalizeText(text, lang string) (string, error) {
	if !slices.Contains(languages, lang) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLang, lang)
	}

	text = norm.NFKD.String(text)
	text = emojiPattern.ReplaceAllString(text, "")
	text = symbolReplacer.Replace(text)
	text = expressionReplacer.Replace(text)
	text = punctSpacing.ReplaceAllString(text, "$1")

	for _, q := range []string{`""`, `''`, "``"} {
		for strings.Contains(text, q) {
			text = strings.ReplaceAll(text, q, q[:1])
		}
	}

	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	if last, ok := lastRune(text); !ok || !strings.ContainsRune(terminators, last) {
		text += "."
	}

	return "<" + lang + ">" + text + "</" + lang + ">", nil
}

func lastRune(s string) (rune, bool) {
	r := []rune(s)
	if len(r) == 0 {
		return 0, false
	}
	return r[len(r)-1], true
}

// encodeText normalizes text and maps it to token ids. Code points without
// a token are dropped.
func encodeText(idx indexer, text, lang string) ([]int64, error) {
	normalized, err := normalizeText(text, lang)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(normalized))
	for _, r := range normalized {
		if id, ok := idx.lookup(r); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrEmptyText
	}

	return ids, nil
}
