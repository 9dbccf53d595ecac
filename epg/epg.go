package epg

import (
	"encoding/xml"
	"time"
	"tubi-epg/consts"
	"tubi-epg/tubi"
)

type Guide struct {
	XMLName    xml.Name     `xml:"tv"`
	Channels   []*Channel   `xml:"channel"`
	Programmes []*Programme `xml:"programme"`
}

type Channel struct {
	XMLName     xml.Name `xml:"channel"`
	ID          string   `xml:"id,attr"`
	DisplayName string   `xml:"display-name"`
	Icon        *Icon    `xml:"icon,omitempty"`
}

type Icon struct {
	Src string `xml:"src,attr"`
}

type Programme struct {
	XMLName xml.Name `xml:"programme"`
	Channel string   `xml:"channel,attr"`
	Start   string   `xml:"start,attr"`
	Stop    string   `xml:"stop,attr"`
	Title   string   `xml:"title"`
	Desc    string   `xml:"desc,omitempty"`
}

// ConvertTime rewrites 2024-10-08T01:00:00Z as 20241008010000 +0000. Input
// that doesn't parse is returned unchanged.
func ConvertTime(iso string) string {
	t, err := time.Parse(consts.ISO_TIME_FORMAT, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format(consts.TIME_FORMAT)
}

func Compose(rows []tubi.Row) *Guide {
	res := &Guide{}
	for _, row := range rows {
		id := string(row.ContentID)
		channel := &Channel{ID: id, DisplayName: row.TitleOr(consts.UNKNOWN_TITLE)}
		if icon := row.Thumbnail(); icon != "" {
			channel.Icon = &Icon{Src: icon}
		}
		res.Channels = append(res.Channels, channel)

		for _, program := range row.Programs {
			res.Programmes = append(res.Programmes, &Programme{
				Channel: id,
				Start:   ConvertTime(program.StartTime),
				Stop:    ConvertTime(program.EndTime),
				Title:   program.Title,
				Desc:    program.Description,
			})
		}
	}
	return res
}

func (g *Guide) Marshal() ([]byte, error) {
	data, err := xml.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}
