package tubi

import (
	"errors"
	"fmt"
	"strings"
	"tubi-epg/consts"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/unicode"
)

var (
	ErrPayloadNotFound = errors.New("no embedded data in page")
	ErrPayloadDecode   = errors.New("embedded data decode failed")
)

// substitute stands in for bytes that were not valid UTF-8. Upstream mostly
// mangles Spanish titles, so ñ is the usual right guess.
const substitute = "ñ"

func decodePage(page []byte) string {
	text, err := unicode.UTF8.NewDecoder().Bytes(page)
	if err != nil {
		text = []byte(strings.ToValidUTF8(string(page), "�"))
	}
	return strings.ReplaceAll(string(text), "�", substitute)
}

// findDataScript returns the text of the first script element that starts
// with the data marker.
func findDataScript(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var script string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, consts.DATA_MARKER) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return "", ErrPayloadNotFound
	}
	return script, nil
}

// objectSpan returns the text from the first '{' to the last '}'. Balance is
// not checked here; the JSON decoder rejects anything malformed.
func objectSpan(script string) (string, bool) {
	start := strings.Index(script, "{")
	end := strings.LastIndex(script, "}")
	if start < 0 || end < start {
		return "", false
	}
	return script[start : end+1], true
}

func ExtractPayload(page []byte) (*Payload, error) {
	script, err := findDataScript(decodePage(page))
	if err != nil {
		return nil, err
	}
	span, ok := objectSpan(script)
	if !ok {
		return nil, fmt.Errorf("%w: no object literal after %s", ErrPayloadDecode, consts.DATA_MARKER)
	}
	payload, err := DecodePayload([]byte(Repair(span)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
	}
	return payload, nil
}
