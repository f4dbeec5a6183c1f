package extract

import (
	"strings"

	"github.com/ppiankov/betthink/internal/model"
)

// DedupSources keeps citations that have both a URI and a title and removes
// duplicate URIs. Each URI stays at the position it was first seen and takes
// the title of its last occurrence.
func DedupSources(citations []model.Citation) []model.SourceRecord {
	index := make(map[string]int)
	sources := []model.SourceRecord{}

	for _, c := range citations {
		uri := strings.TrimSpace(c.URI)
		title := strings.TrimSpace(c.Title)
		if uri == "" || title == "" {
			continue
		}

		if i, seen := index[uri]; seen {
			sources[i].Title = title
			continue
		}
		index[uri] = len(sources)
		sources = append(sources, model.SourceRecord{Title: title, URI: uri})
	}

	return sources
}
