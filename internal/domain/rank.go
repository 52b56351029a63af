package domain

import "sort"

// Rank is one of nine ordered progression tiers.
type Rank string

const (
	RankFerro      Rank = "Ferro"
	RankBronze     Rank = "Bronze"
	RankPrata      Rank = "Prata"
	RankOuro       Rank = "Ouro"
	RankPlatina    Rank = "Platina"
	RankEsmeralda  Rank = "Esmeralda"
	RankDiamante   Rank = "Diamante"
	RankMestre     Rank = "Mestre"
	RankGraoMestre Rank = "Grão-Mestre"
)

// Ranks lists every tier in ascending order.
var Ranks = []Rank{
	RankFerro,
	RankBronze,
	RankPrata,
	RankOuro,
	RankPlatina,
	RankEsmeralda,
	RankDiamante,
	RankMestre,
	RankGraoMestre,
}

// RankIndex returns the position of r in the tier order, or 0 (Ferro) for
// unknown values so that corrupt stored ranks degrade to the bottom tier.
func RankIndex(r Rank) int {
	for i, known := range Ranks {
		if known == r {
			return i
		}
	}
	return 0
}

// NextRank advances exactly one tier on a fully won match. The top tier
// saturates; a lost match never moves the rank in either direction.
func NextRank(current Rank, won bool) Rank {
	if !won {
		return current
	}
	idx := RankIndex(current)
	if idx >= len(Ranks)-1 {
		return current
	}
	return Ranks[idx+1]
}

// RankingSize caps how many entries the leaderboard keeps after an upsert.
const RankingSize = 10

// SortRanking orders entries by rank tier descending, then score descending,
// then nickname ascending so equal players keep a stable order.
func SortRanking(entries []RankingEntry) {
	sort.Slice(entries, func(i, j int) bool {
		ri, rj := RankIndex(entries[i].Rank), RankIndex(entries[j].Rank)
		if ri != rj {
			return ri > rj
		}
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Nickname < entries[j].Nickname
	})
}
