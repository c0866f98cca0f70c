package qc

import (
	"fmt"
	"strings"

	"censorr/internal/catalog"
	"censorr/internal/services"
	"censorr/internal/subtitles"
	"censorr/internal/textutil"
)

// TextFinding reports a catalog term that survived masking in a cue.
type TextFinding struct {
	CueIndex int
	Term     string
}

// VerifyMaskedText scans masked cues for catalog terms that are still
// present as whole words. A non-empty result means masking missed a span
// that conservative matching would not: the output must not ship.
func VerifyMaskedText(cues []subtitles.Cue, cat *catalog.Catalog) ([]TextFinding, error) {
	terms := cat.Terms()
	var findings []TextFinding
	for _, cue := range cues {
		projection := subtitles.Project(cue.Text)
		words := splitNormalizedWords(projection.Plain)
		for _, term := range terms {
			if containsWholeTerm(words, term.Word) {
				findings = append(findings, TextFinding{CueIndex: cue.Index, Term: term.Word})
			}
		}
	}
	if len(findings) > 0 {
		return findings, services.Wrap(
			services.ErrValidation,
			"subtitle-qc",
			"verify",
			fmt.Sprintf("%d catalog term(s) remain in masked output", len(findings)),
			nil,
		)
	}
	return nil, nil
}

func splitNormalizedWords(plain string) []string {
	fields := strings.FieldsFunc(plain, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if norm := textutil.NormalizeWord(field); norm != "" {
			words = append(words, norm)
		}
	}
	return words
}

func containsWholeTerm(words []string, term string) bool {
	parts := strings.Fields(term)
	if len(parts) == 0 {
		return false
	}
	for i := 0; i+len(parts) <= len(words); i++ {
		matched := true
		for j, part := range parts {
			if words[i+j] != part {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
