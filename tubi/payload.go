package tubi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContentID is a channel identifier in canonical string form. Upstream sends
// both numbers and strings; both decode to the same value.
type ContentID string

func (id *ContentID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ContentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("content id %s: %w", b, err)
	}
	*id = ContentID(n.String())
	return nil
}

type Category struct {
	Name     *string     `json:"name"`
	Contents []ContentID `json:"contents"`
}

// Container is one entry of epg.contentIdsByContainer.
type Container struct {
	Key        string
	Categories []Category
}

// Containers keeps contentIdsByContainer in document order so the flat
// channel list and last-write-wins grouping are deterministic.
type Containers []Container

func (c *Containers) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*c = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("contentIdsByContainer: expected object, got %v", tok)
	}
	var out Containers
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var cats []Category
		if err := dec.Decode(&cats); err != nil {
			return fmt.Errorf("contentIdsByContainer[%s]: %w", key, err)
		}
		out = append(out, Container{Key: key, Categories: cats})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

type Record struct {
	EPG struct {
		ContentIDsByContainer Containers `json:"contentIdsByContainer"`
	} `json:"epg"`
}

type PayloadShape int

const (
	SingleRecord PayloadShape = iota
	RecordList
)

func (s PayloadShape) String() string {
	if s == RecordList {
		return "list"
	}
	return "single"
}

// Payload is the decoded page data. Shape records how upstream delivered it;
// Records is always the normalised list form.
type Payload struct {
	Shape   PayloadShape
	Records []Record
}

func DecodePayload(data []byte) (*Payload, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return &Payload{Shape: RecordList, Records: records}, nil
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &Payload{Shape: SingleRecord, Records: []Record{r}}, nil
}
