package services

import (
	"cmp"
	"slices"

	"airbnb-etl/models"
	"airbnb-etl/utils"
)

const stageRanker = "ranker"

// Ranker summarises listings per neighbourhood group and ranks the groups.
type Ranker struct {
	logger *utils.Logger
}

// NewRanker creates a Ranker with the given logger.
func NewRanker(logger *utils.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// RankGroups counts listings and averages price per neighbourhood group,
// ranks groups by count and by mean price (both descending), then ranks
// the sum of those two ranks ascending. Ties use competition ranking
// (1, 2, 2, 4). Rows come back sorted by combined rank, then group name.
func (r *Ranker) RankGroups(t models.Table) ([]models.GroupRank, error) {
	if err := t.Require(stageRanker, models.ColNeighbourhoodGroup, models.ColPrice); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var groups []models.GroupRank
	var sums []float64
	for _, l := range t.Rows() {
		i, ok := index[l.NeighbourhoodGroup]
		if !ok {
			i = len(groups)
			index[l.NeighbourhoodGroup] = i
			groups = append(groups, models.GroupRank{Group: l.NeighbourhoodGroup})
			sums = append(sums, 0)
		}
		groups[i].TotalItems++
		sums[i] += l.Price
	}

	counts := make([]float64, len(groups))
	means := make([]float64, len(groups))
	for i := range groups {
		groups[i].MeanPrice = sums[i] / float64(groups[i].TotalItems)
		counts[i] = float64(groups[i].TotalItems)
		means[i] = groups[i].MeanPrice
	}

	byCount := CompetitionRank(counts, true)
	byPrice := CompetitionRank(means, true)
	combined := make([]float64, len(groups))
	for i := range groups {
		groups[i].RankListings = byCount[i]
		groups[i].RankPrice = byPrice[i]
		combined[i] = float64(byCount[i] + byPrice[i])
	}
	for i, rank := range CompetitionRank(combined, false) {
		groups[i].CombinedRank = rank
	}

	slices.SortFunc(groups, func(a, b models.GroupRank) int {
		if c := cmp.Compare(a.CombinedRank, b.CombinedRank); c != 0 {
			return c
		}
		return cmp.Compare(a.Group, b.Group)
	})

	r.logger.Info("[ranker] Ranked %d neighbourhood groups over %d listings", len(groups), t.Len())
	return groups, nil
}

// CompetitionRank assigns 1-based ranks where equal values share the best
// position and the following value skips the shared places.
func CompetitionRank(values []float64, descending bool) []int {
	ranks := make([]int, len(values))
	for i, v := range values {
		rank := 1
		for _, w := range values {
			if (descending && w > v) || (!descending && w < v) {
				rank++
			}
		}
		ranks[i] = rank
	}
	return ranks
}
