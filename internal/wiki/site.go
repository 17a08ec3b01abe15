package wiki

import (
	"fmt"
	"net/url"
	"strings"
)

// Language selects which edition of the encyclopedia is used.
type Language string

// Supported languages.
const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"

	// DefaultLanguage is assigned to sessions on first contact.
	DefaultLanguage = LanguageEnglish
)

// Languages lists every supported language in display order.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageIndonesian}
}

// ParseLanguage validates a language code.
func ParseLanguage(raw string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(raw)))
	switch lang {
	case LanguageEnglish, LanguageIndonesian:
		return lang, nil
	default:
		return "", fmt.Errorf("unsupported language %q", raw)
	}
}

// Name returns the human readable language name.
func (l Language) Name() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageIndonesian:
		return "Indonesian"
	default:
		return string(l)
	}
}

// Site is one language edition reachable at BaseURL.
type Site struct {
	Language Language
	BaseURL  string
}

// NewSite builds a Site from a template such as "https://%s.wikipedia.org".
func NewSite(lang Language, baseURLTemplate string) Site {
	return Site{
		Language: lang,
		BaseURL:  strings.TrimRight(fmt.Sprintf(baseURLTemplate, lang), "/"),
	}
}

// ArticleURL absolutises a site-relative path such as "/wiki/Go".
func (s Site) ArticleURL(path string) string {
	return s.BaseURL + path
}

// SearchURL returns the opensearch endpoint asking for the single best match.
func (s Site) SearchURL(query string) string {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", "1")
	params.Set("namespace", "0")
	params.Set("format", "json")
	return s.BaseURL + "/w/api.php?" + params.Encode()
}

// RandomURL returns the address that redirects to a random article.
func (s Site) RandomURL() string {
	return s.BaseURL + "/wiki/Special:Random"
}
