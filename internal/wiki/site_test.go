package wiki

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Language
		wantErr bool
	}{
		{name: "english", input: "en", want: LanguageEnglish},
		{name: "indonesian upper", input: " ID ", want: LanguageIndonesian},
		{name: "unsupported", input: "fr", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLanguage(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLanguageName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "English", LanguageEnglish.Name())
	require.Equal(t, "Indonesian", LanguageIndonesian.Name())
	require.Equal(t, []Language{LanguageEnglish, LanguageIndonesian}, Languages())
}

func TestSiteURLs(t *testing.T) {
	t.Parallel()

	site := NewSite(LanguageIndonesian, "https://%s.wikipedia.org/")
	require.Equal(t, "https://id.wikipedia.org", site.BaseURL)
	require.Equal(t, "https://id.wikipedia.org/wiki/Jakarta", site.ArticleURL("/wiki/Jakarta"))
	require.Equal(t, "https://id.wikipedia.org/wiki/Special:Random", site.RandomURL())

	u, err := url.Parse(site.SearchURL("nasi goreng & sate"))
	require.NoError(t, err)
	require.Equal(t, "/w/api.php", u.Path)
	q := u.Query()
	require.Equal(t, "opensearch", q.Get("action"))
	require.Equal(t, "nasi goreng & sate", q.Get("search"))
	require.Equal(t, "1", q.Get("limit"))
	require.Equal(t, "0", q.Get("namespace"))
	require.Equal(t, "json", q.Get("format"))
}
