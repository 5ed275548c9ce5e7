package mutate

import (
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/store"
)

type ExpandResult struct {
	Nodes []model.DiagramNode
	Edges []model.DiagramEdge
}

// ApplyExpansion adds one freeform ideation node per label around the source node and
// connects each back to it. Blank labels are skipped. No tasks are created.
func ApplyExpansion(db *store.DB, sourceID string, labels []string, radius float64) (ExpandResult, error) {
	src, ok := db.Ideation.Node(strings.TrimSpace(sourceID))
	if !ok {
		return ExpandResult{}, NotFoundError{Kind: "node", ID: sourceID}
	}
	clean := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			clean = append(clean, l)
		}
	}
	if radius <= 0 {
		radius = DefaultExpandRadius
	}

	var res ExpandResult
	for i, pos := range ArcLayout(src.Position, len(clean), radius) {
		n := db.Ideation.AddNode(pos, model.NodeData{Label: clean[i]})
		res.Nodes = append(res.Nodes, n)
		if e, ok := db.Ideation.AddEdge(src.ID, n.ID); ok {
			res.Edges = append(res.Edges, e)
		}
	}
	return res, nil
}
