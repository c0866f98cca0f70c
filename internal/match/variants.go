package match

import "strings"

// VariantGenerator expands a term into the spelling variants an aggressive
// strategy should also treat as exact forms. Implementations must return
// normalized lowercase words.
type VariantGenerator interface {
	Variants(word string) []string
}

var aggressiveSuffixes = []string{
	"s", "ed", "er", "ing", "in",
	"ly", "ness", "able", "ible", "ful", "less", "ward", "wise",
	"like", "ish", "ment", "tion", "sion",
}

var compoundPatterns = []string{
	"un", "re", "pre", "mis", "dis", "over", "under", "out", "up", "down",
	"back", "fore", "anti", "pro", "semi", "multi", "non", "sub", "super",
	"inter", "intra", "extra", "ultra", "mega", "mini", "micro", "macro",
}

// phoneticSubstitutions are single-application digraph rewrites that cover
// silent letters and common homophone spellings.
var phoneticSubstitutions = [][2]string{
	{"ph", "f"},
	{"f", "ph"},
	{"ck", "k"},
	{"k", "ck"},
	{"kn", "n"},
	{"wh", "w"},
	{"wr", "r"},
	{"ci", "si"},
	{"sh", "ch"},
	{"ch", "sh"},
}

// AffixVariants is the default variant generator: suffix inflections,
// compound prefix/suffix forms, and phonetic digraph substitutions.
type AffixVariants struct{}

// Variants expands word into its aggressive candidate forms. Multi-word terms
// get no expansion; their phrase ratio already tolerates inflection.
func (AffixVariants) Variants(word string) []string {
	if word == "" || strings.ContainsRune(word, ' ') {
		return nil
	}
	seen := map[string]struct{}{word: {}}
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	for _, suffix := range aggressiveSuffixes {
		add(word + suffix)
	}
	if len(word) >= 3 {
		for _, pattern := range compoundPatterns {
			add(pattern + word)
			add(word + pattern)
		}
	}
	for _, sub := range phoneticSubstitutions {
		if idx := strings.Index(word, sub[0]); idx >= 0 {
			add(word[:idx] + sub[1] + word[idx+len(sub[0]):])
		}
	}
	return out
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "else": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "for": {}, "by": {}, "with": {}, "at": {}, "from": {},
	"as": {}, "is": {}, "it": {}, "its": {}, "be": {}, "are": {}, "was": {}, "were": {}, "am": {},
	"he": {}, "she": {}, "they": {}, "we": {}, "you": {}, "i": {}, "me": {}, "him": {}, "her": {},
	"them": {}, "us": {}, "my": {}, "your": {}, "his": {}, "their": {}, "our": {},
}

func isStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}
