package epg

import (
	"encoding/xml"
	"strings"
	"testing"
	"tubi-epg/tubi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-10-08T01:00:00Z", "20241008010000 +0000"},
		{"2024-12-31T23:59:59Z", "20241231235959 +0000"},
		{"not-a-date", "not-a-date"},
		{"2024-10-08T01:00:00.000Z", "20241008010000 +0000"},
		{"2024-10-08T01:00:00+02:00", "2024-10-08T01:00:00+02:00"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertTime(tt.in), tt.in)
	}
}

func TestCompose(t *testing.T) {
	news, empty := "News", ""
	a := tubi.Row{ContentID: "1", Title: &news}
	a.Images.Thumbnail = []string{"https://img/1.png"}
	a.Programs = []tubi.Program{
		{Title: "Morning", Description: "Headlines", StartTime: "2024-10-08T01:00:00Z", EndTime: "2024-10-08T02:00:00Z"},
		{Title: "Noon", StartTime: "bogus", EndTime: "2024-10-08T03:00:00Z"},
	}
	b := tubi.Row{ContentID: "2"}
	c := tubi.Row{ContentID: "3", Title: &empty}

	g := Compose([]tubi.Row{a, b, c})
	require.Len(t, g.Channels, 3)
	require.Len(t, g.Programmes, 2)
	assert.Equal(t, "https://img/1.png", g.Channels[0].Icon.Src)
	assert.Nil(t, g.Channels[1].Icon)
	assert.Equal(t, "Unknown Title", g.Channels[1].DisplayName)
	assert.Equal(t, "", g.Channels[2].DisplayName)
	assert.Equal(t, "20241008010000 +0000", g.Programmes[0].Start)
	assert.Equal(t, "bogus", g.Programmes[1].Start)
	assert.Equal(t, "1", g.Programmes[1].Channel)

	data, err := g.Marshal()
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `<channel id="1">`)
	assert.Contains(t, doc, `<icon src="https://img/1.png"></icon>`)
	assert.Contains(t, doc, `<programme channel="1" start="20241008010000 +0000" stop="20241008020000 +0000">`)
	assert.Contains(t, doc, `<desc>Headlines</desc>`)
	assert.Equal(t, 1, strings.Count(doc, "<desc>"))
	assert.Less(t, strings.Index(doc, `<channel id="2">`), strings.Index(doc, "<programme"))

	var back Guide
	require.NoError(t, xml.Unmarshal(data, &back))
	assert.Len(t, back.Channels, 3)
	assert.Len(t, back.Programmes, 2)
}
