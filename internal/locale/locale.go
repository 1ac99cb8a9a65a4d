// Package locale decides which title record language to show.
package locale

import (
	"fmt"
	"strings"

	golocale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"

	"cialist/internal/smdh"
)

// Query reports the language titles should be shown in
type Query interface {
	CurrentLanguage() (smdh.Language, error)
}

// supported lists the title languages in match preference order. English
// comes first so it wins when nothing matches.
var supported = []struct {
	tag  language.Tag
	lang smdh.Language
}{
	{language.English, smdh.English},
	{language.Japanese, smdh.Japanese},
	{language.French, smdh.French},
	{language.German, smdh.German},
	{language.Italian, smdh.Italian},
	{language.Spanish, smdh.Spanish},
	{language.SimplifiedChinese, smdh.SimplifiedChinese},
	{language.Korean, smdh.Korean},
	{language.Dutch, smdh.Dutch},
	{language.Portuguese, smdh.Portuguese},
	{language.Russian, smdh.Russian},
	{language.TraditionalChinese, smdh.TraditionalChinese},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = s.tag
	}
	return language.NewMatcher(tags)
}()

// FromTag maps a BCP 47 tag to the closest title language
func FromTag(tag language.Tag) smdh.Language {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return smdh.English
	}
	return supported[idx].lang
}

// Parse maps a language string such as "fr", "zh-TW" or "en_US" to a title
// language
func Parse(s string) (smdh.Language, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return smdh.English, fmt.Errorf("locale %q: %w", s, err)
	}
	return FromTag(tag), nil
}

// System queries the language of the running system
type System struct{}

func (System) CurrentLanguage() (smdh.Language, error) {
	name, err := golocale.GetLocale()
	if err != nil {
		return smdh.English, fmt.Errorf("failed to query system locale: %w", err)
	}
	// POSIX locales may carry an encoding or modifier: "de_DE.UTF-8@euro"
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	return Parse(name)
}

// Fixed always reports the same language
type Fixed smdh.Language

func (f Fixed) CurrentLanguage() (smdh.Language, error) {
	return smdh.Language(f), nil
}

// Failing always fails, for exercising the English fallback
type Failing struct{ Err error }

func (f Failing) CurrentLanguage() (smdh.Language, error) {
	return smdh.English, f.Err
}

// New returns a Fixed query for override, or System when it is empty
func New(override string) (Query, error) {
	if override == "" {
		return System{}, nil
	}
	lang, err := Parse(override)
	if err != nil {
		return nil, err
	}
	return Fixed(lang), nil
}
