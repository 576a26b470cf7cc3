// Package language guesses the language of review page text so non-English
// results can be told apart in the review history.
package language

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua detector restricted to common scholarship-page
// languages; building one for every language costs far more memory.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
	langs    []lingua.Language
}

var defaultLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.Arabic,
	lingua.Hindi,
}

// NewDetector builds lazily; the models load on the first Detect call.
func NewDetector(langs ...lingua.Language) *Detector {
	if len(langs) == 0 {
		langs = defaultLanguages
	}
	return &Detector{langs: langs}
}

// Detect returns the ISO 639-1 code of text's language, or "" when unsure.
func (d *Detector) Detect(text string) string {
	if d == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(d.langs...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
