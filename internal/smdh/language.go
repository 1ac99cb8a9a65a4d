package smdh

// Language selects one of the title records
type Language int

const (
	Japanese Language = iota
	English
	French
	German
	Italian
	Spanish
	SimplifiedChinese
	Korean
	Dutch
	Portuguese
	Russian
	TraditionalChinese
)

// LanguageCount is the number of title records in a block. Records past
// TraditionalChinese are reserved.
const LanguageCount = 16

var languageNames = map[Language]string{
	Japanese:           "ja",
	English:            "en",
	French:             "fr",
	German:             "de",
	Italian:            "it",
	Spanish:            "es",
	SimplifiedChinese:  "zh-Hans",
	Korean:             "ko",
	Dutch:              "nl",
	Portuguese:         "pt",
	Russian:            "ru",
	TraditionalChinese: "zh-Hant",
}

// Valid reports whether l indexes a title record
func (l Language) Valid() bool {
	return l >= 0 && l < LanguageCount
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}
