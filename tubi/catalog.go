package tubi

import "tubi-epg/consts"

// GroupMapping maps a channel id to its display category.
type GroupMapping map[string]string

func (m GroupMapping) Group(id string) string {
	if name, ok := m[id]; ok {
		return name
	}
	return consts.GROUP_OTHER
}

// BuildIndex walks every record's epg.contentIdsByContainer. The flat id list
// keeps duplicates; the mapping is last write wins.
func BuildIndex(p *Payload) (GroupMapping, []string) {
	groups := GroupMapping{}
	var ids []string
	if p == nil {
		return groups, ids
	}
	for _, record := range p.Records {
		for _, container := range record.EPG.ContentIDsByContainer {
			for _, category := range container.Categories {
				name := consts.GROUP_OTHER
				if category.Name != nil {
					name = *category.Name
				}
				for _, id := range category.Contents {
					groups[string(id)] = name
					ids = append(ids, string(id))
				}
			}
		}
	}
	return groups, ids
}
