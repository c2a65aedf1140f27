package context

import "sort"

// scoreAndPack greedily fills the token budget by descending
// relevance/cost ratio, breaking ties by criticality then NodeId
// (spec §4.9 step 4). Returns the packed items and the tokens they cost.
func scoreAndPack(items []Item, budgetTokens int) ([]Item, int) {
	type scored struct {
		item Item
		cost int
		rate float64
	}

	scoredItems := make([]scored, 0, len(items))
	for _, it := range items {
		cost := estimateTokens(it)
		if cost == 0 {
			cost = 1
		}
		scoredItems = append(scoredItems, scored{item: it, cost: cost, rate: it.Relevance / float64(cost)})
	}

	sort.Slice(scoredItems, func(i, j int) bool {
		a, b := scoredItems[i], scoredItems[j]
		if a.rate != b.rate {
			return a.rate > b.rate
		}
		if a.item.Criticality != b.item.Criticality {
			return a.item.Criticality > b.item.Criticality
		}
		return a.item.Id < b.item.Id
	})

	var packed []Item
	used := 0
	for _, s := range scoredItems {
		if budgetTokens > 0 && used+s.cost > budgetTokens {
			continue
		}
		packed = append(packed, s.item)
		used += s.cost
	}
	return packed, used
}
