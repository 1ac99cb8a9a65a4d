package smdh_test

import (
	"strings"
	"testing"

	"cialist/internal/smdh"
	"cialist/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	icon := testutils.TiledIcon(0xF800)
	data := testutils.BuildSMDH(map[int]testutils.SMDHTitle{
		int(smdh.English): {Short: "Game", Long: "A Game Title", Publisher: "Studio"},
		int(smdh.French):  {Short: "Jeu", Long: "Un jeu é", Publisher: "Studio FR"},
	}, icon)

	s, err := smdh.Parse(data)
	require.NoError(t, err)

	en := s.Title(smdh.English)
	assert.Equal(t, "Game", en.ShortDescription)
	assert.Equal(t, "A Game Title", en.LongDescription)
	assert.Equal(t, "Studio", en.Publisher)

	fr := s.Title(smdh.French)
	assert.Equal(t, "Un jeu é", fr.LongDescription)

	assert.Equal(t, icon, s.LargeIcon())
}

func TestParseErrors(t *testing.T) {
	_, err := smdh.Parse(make([]byte, 16))
	assert.ErrorIs(t, err, smdh.ErrTruncated)

	data := testutils.BuildSMDH(nil, nil)
	copy(data, "XXXX")
	_, err = smdh.Parse(data)
	assert.ErrorIs(t, err, smdh.ErrBadMagic)
}

func TestParseUsesLeadingBlock(t *testing.T) {
	data := append(testutils.BuildSMDH(nil, nil), 0xAA, 0xBB)
	_, err := smdh.Parse(data)
	assert.NoError(t, err)
}

func TestTitleOutOfRangeFallsBackToEnglish(t *testing.T) {
	data := testutils.BuildSMDH(map[int]testutils.SMDHTitle{
		int(smdh.English): {Short: "English"},
	}, nil)
	s, err := smdh.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "English", s.Title(smdh.Language(-1)).ShortDescription)
	assert.Equal(t, "English", s.Title(smdh.Language(smdh.LanguageCount)).ShortDescription)
	assert.Equal(t, "", s.Title(smdh.Japanese).ShortDescription)
}

func TestTitleFullField(t *testing.T) {
	// A field with no room for a terminator still decodes to its full width
	long := strings.Repeat("x", 200)
	data := testutils.BuildSMDH(map[int]testutils.SMDHTitle{
		int(smdh.English): {Short: long},
	}, nil)
	s, err := smdh.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 0x80/2-1), s.Title(smdh.English).ShortDescription)

	// Fill the last unit too
	copy(data[0x8+0x200+0x7E:], []byte{'y', 0})
	s, err = smdh.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 0x80/2-1)+"y", s.Title(smdh.English).ShortDescription)
}

func TestLanguageString(t *testing.T) {
	assert.Equal(t, "en", smdh.English.String())
	assert.Equal(t, "zh-Hant", smdh.TraditionalChinese.String())
	assert.Equal(t, "unknown", smdh.Language(14).String())
	assert.True(t, smdh.Language(14).Valid())
	assert.False(t, smdh.Language(16).Valid())
}
