package sorting

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Locale selects the collation used for name ordering. A collate.Collator
// keeps internal buffers, so a fresh one is made per sort.
type Locale struct {
	tag language.Tag
}

var DefaultLocale = Locale{tag: language.English}

// ParseLocale accepts a BCP 47 tag such as "fr" or "sv-SE". Unknown or empty
// input falls back to English.
func ParseLocale(s string) Locale {
	if s == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	return Locale{tag: tag}
}

func (l Locale) String() string {
	return l.tag.String()
}

func (l Locale) Collator() *collate.Collator {
	tag := l.tag
	if tag == language.Und {
		tag = language.English
	}
	return collate.New(tag)
}
