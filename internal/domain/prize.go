package domain

// PrizeLadder awards an escalating score per question position; the prize at
// index i is the score for correctly answering the question at position i.
var PrizeLadder = []int{
	100, 200, 300, 400, 500,
	600, 700, 800, 900, 1000,
	1100, 1200, 1300, 1400, 1500,
	1600,
}

// MatchLength caps how many questions a match draws from the bank.
var MatchLength = len(PrizeLadder)

// Prize returns the score for position i, or 0 when i is out of the ladder.
func Prize(i int) int {
	if i < 0 || i >= len(PrizeLadder) {
		return 0
	}
	return PrizeLadder[i]
}
