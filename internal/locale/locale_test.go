package locale_test

import (
	"errors"
	"testing"

	"cialist/internal/locale"
	"cialist/internal/smdh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want smdh.Language
	}{
		{"en", smdh.English},
		{"en-GB", smdh.English},
		{"ja-JP", smdh.Japanese},
		{"fr", smdh.French},
		{"de-AT", smdh.German},
		{"pt-BR", smdh.Portuguese},
		{"zh-CN", smdh.SimplifiedChinese},
		{"zh-TW", smdh.TraditionalChinese},
		{"ko", smdh.Korean},
		{"sw", smdh.English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := locale.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	lang, err := locale.Parse("not a tag!")
	assert.Error(t, err)
	assert.Equal(t, smdh.English, lang)
}

func TestNew(t *testing.T) {
	q, err := locale.New("")
	require.NoError(t, err)
	assert.IsType(t, locale.System{}, q)

	q, err = locale.New("it")
	require.NoError(t, err)
	lang, err := q.CurrentLanguage()
	require.NoError(t, err)
	assert.Equal(t, smdh.Italian, lang)

	_, err = locale.New("???")
	assert.Error(t, err)
}

func TestFailing(t *testing.T) {
	boom := errors.New("no locale")
	_, err := locale.Failing{Err: boom}.CurrentLanguage()
	assert.ErrorIs(t, err, boom)
}
