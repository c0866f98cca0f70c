package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"log/slog"

	"censorr/internal/logging"
	"censorr/internal/services"
	"censorr/internal/textutil"
)

// Strategy controls how broadly spelling and phonetic variants of a term are
// searched during matching.
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyAggressive   Strategy = "aggressive"
)

// Term is one fully resolved catalog entry. Threshold and Strategy always
// hold concrete values once the catalog is built.
type Term struct {
	// Word is the normalized lowercase form, unique within the catalog.
	Word string
	// FuzzyThreshold is the minimum accepted similarity score (0-100).
	FuzzyThreshold int
	// Strategy selects the candidate generation breadth.
	Strategy Strategy
}

// WordCount returns the number of words in the term, for window sizing.
func (t Term) WordCount() int {
	if t.Word == "" {
		return 0
	}
	return strings.Count(t.Word, " ") + 1
}

// Catalog is the read-only resolved term list for one pipeline run.
type Catalog struct {
	terms []Term
}

// Terms returns the resolved terms in definition order.
func (c *Catalog) Terms() []Term {
	if c == nil {
		return nil
	}
	return c.terms
}

// Len returns the number of resolved terms.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.terms)
}

// rawEntry mirrors the advanced term object format. The simple format is a
// bare JSON string.
type rawEntry struct {
	Word            string `json:"word"`
	FuzzyThreshold  *int   `json:"fuzzy_threshold"`
	Threshold       *int   `json:"threshold"`
	VariantStrategy string `json:"variant_strategy"`
	Aggressive      bool   `json:"aggressive"`
}

// Load reads and resolves the term list at path.
func Load(path string, defaultThreshold int, logger *slog.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "load", fmt.Sprintf("read terms file %s", path), err)
	}
	return Parse(data, defaultThreshold, logger)
}

// Parse resolves a term list from raw JSON.
func Parse(data []byte, defaultThreshold int, logger *slog.Logger) (*Catalog, error) {
	if defaultThreshold < 0 || defaultThreshold > 100 {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "parse",
			fmt.Sprintf("default fuzzy threshold %d outside 0-100", defaultThreshold), nil)
	}
	log := logging.NewComponentLogger(logger, "catalog")

	items, err := decodeItems(data)
	if err != nil {
		return nil, err
	}

	terms := make([]Term, 0, len(items))
	index := make(map[string]int, len(items))
	for i, item := range items {
		term, err := resolveTerm(item, i, defaultThreshold)
		if err != nil {
			return nil, err
		}
		if existing, ok := index[term.Word]; ok {
			log.Warn("duplicate term; keeping last definition",
				logging.String("word", term.Word),
				logging.Int("entry", i),
			)
			terms[existing] = term
			continue
		}
		index[term.Word] = len(terms)
		terms = append(terms, term)
	}

	return &Catalog{terms: terms}, nil
}

func decodeItems(data []byte) ([]json.RawMessage, error) {
	var wrapper struct {
		Profanities []json.RawMessage `json:"profanities"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Profanities != nil {
		return wrapper.Profanities, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "parse",
			"terms file must be a JSON array or an object with a profanities array", err)
	}
	return items, nil
}

func resolveTerm(raw json.RawMessage, position, defaultThreshold int) (Term, error) {
	var word string
	entry := rawEntry{}

	if err := json.Unmarshal(raw, &word); err == nil {
		entry.Word = word
	} else if err := json.Unmarshal(raw, &entry); err != nil {
		return Term{}, services.Wrap(services.ErrConfiguration, "catalog", "parse",
			fmt.Sprintf("entry %d is neither a string nor a term object", position), err)
	}

	normalized := textutil.NormalizePhrase(entry.Word)
	if normalized == "" {
		return Term{}, services.Wrap(services.ErrConfiguration, "catalog", "parse",
			fmt.Sprintf("entry %d has an empty word", position), nil)
	}

	threshold := defaultThreshold
	if entry.FuzzyThreshold != nil {
		threshold = *entry.FuzzyThreshold
	} else if entry.Threshold != nil {
		threshold = *entry.Threshold
	}
	if threshold < 0 || threshold > 100 {
		return Term{}, services.Wrap(services.ErrConfiguration, "catalog", "parse",
			fmt.Sprintf("term %q has fuzzy_threshold %d outside 0-100", normalized, threshold), nil)
	}

	strategy := StrategyConservative
	switch strings.ToLower(strings.TrimSpace(entry.VariantStrategy)) {
	case "":
		if entry.Aggressive {
			strategy = StrategyAggressive
		}
	case string(StrategyConservative):
	case string(StrategyAggressive):
		strategy = StrategyAggressive
	default:
		return Term{}, services.Wrap(services.ErrConfiguration, "catalog", "parse",
			fmt.Sprintf("term %q has unknown variant_strategy %q", normalized, entry.VariantStrategy), nil)
	}

	return Term{Word: normalized, FuzzyThreshold: threshold, Strategy: strategy}, nil
}
