package onnx

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxChunkLen       = 300
	maxChunkLenKorean = 120
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n+`)

// abbreviations never end a sentence.
var abbreviations = map[string]bool{
	"Mr.": true, "Mrs.": true, "Ms.": true, "Dr.": true, "Prof.": true,
	"Sr.": true, "Jr.": true, "Ph.D.": true, "etc.": true, "e.g.": true,
	"i.e.": true, "vs.": true, "Inc.": true, "Ltd.": true, "Co.": true,
	"Corp.": true, "St.": true, "Ave.": true, "Blvd.": true,
}

func chunkLimit(lang string) int {
	if lang == "ko" {
		return maxChunkLenKorean
	}
	return maxChunkLen
}

// chunkText splits text into pieces of at most maxLen characters, breaking
// on paragraphs, then sentences, then commas, then words. A single word
// longer than maxLen is kept whole.
func chunkText(text string, maxLen int) []string {
	var chunks []string

	for _, para := range paragraphBreak.Split(strings.TrimSpace(text), -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		var pieces []string
		for _, s := range splitSentences(para) {
			if runeLen(s) <= maxLen {
				pieces = append(pieces, s)
				continue
			}
			pieces = append(pieces, splitLong(s, maxLen)...)
		}

		chunks = append(chunks, pack(pieces, maxLen)...)
	}

	return chunks
}

// splitSentences breaks after . ! or ? followed by whitespace, unless the
// word before is a known abbreviation or a single capital initial.
func splitSentences(para string) []string {
	var out []string
	fields := strings.Fields(para)
	start := 0

	for i, f := range fields {
		last, _ := utf8.DecodeLastRuneInString(f)
		if i == len(fields)-1 || !strings.ContainsRune(".!?", last) {
			continue
		}
		if last == '.' && (abbreviations[strings.TrimLeft(f, `([{"'`)] || isInitial(f)) {
			continue
		}
		out = append(out, strings.Join(fields[start:i+1], " "))
		start = i + 1
	}
	if start < len(fields) {
		out = append(out, strings.Join(fields[start:], " "))
	}

	return out
}

// isInitial matches a word ending in a lone capital letter and a period,
// such as "F." or "(J.".
func isInitial(word string) bool {
	r := []rune(word)
	if len(r) < 2 || !unicode.IsUpper(r[len(r)-2]) {
		return false
	}
	return len(r) == 2 || !unicode.IsLetter(r[len(r)-3])
}

// splitLong breaks an oversized sentence on commas, falling back to words.
func splitLong(sentence string, maxLen int) []string {
	var parts []string
	for _, clause := range strings.SplitAfter(sentence, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if runeLen(clause) <= maxLen {
			parts = append(parts, clause)
			continue
		}
		parts = append(parts, strings.Fields(clause)...)
	}

	return pack(parts, maxLen)
}

// pack greedily joins pieces with spaces while staying within maxLen.
func pack(pieces []string, maxLen int) []string {
	var out []string
	var cur strings.Builder
	curLen := 0

	for _, p := range pieces {
		n := runeLen(p)
		if curLen > 0 && curLen+1+n > maxLen {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(p)
		curLen += n
	}
	if curLen > 0 {
		out = append(out, cur.String())
	}

	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
