package service

import "sort"

// RankByGenreOverlap 按与喜好类型集合的重合数降序排序热门列表。
// 稳定排序：重合数相同的条目保持输入顺序；喜好集合为空时原样返回。
func RankByGenreOverlap(trending []TrendingMovie, favoriteGenres map[int]bool) []TrendingMovie {
	if len(favoriteGenres) == 0 || len(trending) == 0 {
		return trending
	}

	type scored struct {
		movie   TrendingMovie
		overlap int
	}

	ranked := make([]scored, len(trending))
	for i, m := range trending {
		n := 0
		for _, g := range m.GenreIDs {
			if favoriteGenres[g] {
				n++
			}
		}
		ranked[i] = scored{movie: m, overlap: n}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].overlap > ranked[j].overlap
	})

	out := make([]TrendingMovie, len(ranked))
	for i, s := range ranked {
		out[i] = s.movie
	}
	return out
}
