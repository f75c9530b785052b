package copper

// TraceChain flood-fills the adjacency graph from the start segment and
// returns the full connected chain, the set of segment identities in it,
// and every endpoint coordinate that falls outside the square zone around
// center. Exit points only get flagged; traversal continues through them,
// so the chain is always the complete connected component. A chain with
// zero exit points is fully contained in the zone: an isolated local stub,
// safe to remove or to treat as a template boundary.
func (idx *Index) TraceChain(start ItemID, center Vec, radius int64) (chain []ItemID, ids IDSet, exits map[Vec]struct{}) {
	ids = make(IDSet)
	exits = make(map[Vec]struct{})

	queue := []ItemID{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if ids.Has(curr) {
			continue
		}
		chain = append(chain, curr)
		ids.Add(curr)

		for _, p := range idx.Item(curr).Endpoints() {
			if !InZone(p, center, radius) {
				exits[p] = struct{}{}
			}
			for _, neighbor := range idx.At(p) {
				if !ids.Has(neighbor) {
					queue = append(queue, neighbor)
				}
			}
		}
	}

	return chain, ids, exits
}
