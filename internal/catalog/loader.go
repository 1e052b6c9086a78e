package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/masmgr/gamerules/internal/logging"
)

// Load reads every document from the source and merges their games.
// When an ID appears in more than one document the later document wins.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]Game)
	result := &Catalog{}
	for _, doc := range docs {
		games, skipped, err := Decode(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Name, err)
		}
		for _, g := range games {
			if _, dup := byID[g.ID]; dup {
				logging.Warn().Int64("id", g.ID).Str("document", doc.Name).Msg("duplicate game ID, keeping later record")
			}
			byID[g.ID] = g
		}
		if skipped > 0 {
			logging.Warn().Int("records", skipped).Str("document", doc.Name).Msg("skipped records without an integer ID")
		}
		result.Skipped += skipped
		result.Documents = append(result.Documents, doc.Name)
	}

	result.Games = make([]Game, 0, len(byID))
	for _, g := range byID {
		result.Games = append(result.Games, g)
	}
	sort.Slice(result.Games, func(i, j int) bool { return result.Games[i].ID < result.Games[j].ID })

	logging.Info().Int("games", len(result.Games)).Int("documents", len(docs)).Msg("catalog loaded")
	return result, nil
}
