package stopwords

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MinSignificantLength is the shortest word worth an inference call
const MinSignificantLength = 3

// defaultWords are pronouns, articles, auxiliary verbs, prepositions,
// conjunctions, demonstratives and question words. Entries are in normalized
// form, so contractions appear without their apostrophe.
var defaultWords = []string{
	// pronouns
	"i", "me", "my", "mine", "myself", "you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself", "it", "its", "itself",
	"we", "us", "our", "ours", "ourselves", "they", "them", "their", "theirs", "themselves",
	"im", "ive", "id", "youre", "youve", "hes", "shes", "theyre",
	// articles
	"a", "an", "the",
	// auxiliary verbs
	"am", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "having",
	"do", "does", "did", "doing", "will", "would", "shall", "should", "can", "could", "may",
	"might", "must", "dont", "doesnt", "didnt", "isnt", "arent", "wasnt", "werent", "wont",
	"cant", "couldnt", "shouldnt", "wouldnt", "hasnt", "havent", "hadnt",
	// prepositions
	"about", "above", "across", "after", "against", "along", "among", "around", "at", "before",
	"behind", "below", "beneath", "beside", "between", "beyond", "by", "down", "during", "except",
	"for", "from", "in", "inside", "into", "near", "of", "off", "on", "onto", "out", "outside",
	"over", "through", "to", "toward", "towards", "under", "until", "up", "upon", "with", "within",
	"without",
	// conjunctions
	"and", "but", "or", "nor", "so", "yet", "because", "although", "though", "while", "if",
	"unless", "since", "than", "whether", "as",
	// demonstratives
	"this", "that", "these", "those",
	// question words
	"what", "which", "who", "whom", "whose", "when", "where", "why", "how",
}

// Checker decides which unknown words are worth resolving through inference
type Checker struct {
	words  map[string]struct{}
	logger *zap.Logger
}

// NewChecker creates a checker with the default stop words plus extra ones
func NewChecker(extra []string, logger *zap.Logger) *Checker {
	words := make(map[string]struct{}, len(defaultWords)+len(extra))
	for _, w := range defaultWords {
		words[w] = struct{}{}
	}

	normalizedExtra := make([]string, 0, len(extra))
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		words[w] = struct{}{}
		normalizedExtra = append(normalizedExtra, w)
	}

	if len(normalizedExtra) > 0 && logger != nil {
		logger.Info("Loaded extra stop words", zap.Strings("words", normalizedExtra))
	}

	return &Checker{
		words:  words,
		logger: logger,
	}
}

// IsStopWord reports whether a normalized word is in the stop set
func (c *Checker) IsStopWord(word string) bool {
	_, ok := c.words[word]
	return ok
}

// IsSignificant reports whether a normalized word could carry emotion:
// not a stop word, at least MinSignificantLength runes, not purely numeric.
func (c *Checker) IsSignificant(word string) bool {
	if utf8.RuneCountInString(word) < MinSignificantLength {
		return false
	}
	if c.IsStopWord(word) {
		if c.logger != nil {
			c.logger.Debug("Skipping stop word", zap.String("word", word))
		}
		return false
	}
	return !isNumeric(word)
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return word != ""
}
