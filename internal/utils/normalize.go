package utils

import "math"

// CreateRankList numbers count completions 1..count in the order the index
// returned them, which is recent aliases first and then trie order. Ranks
// saturate at the largest uint16 the IPC rank field can carry.
func CreateRankList(count int) []uint16 {
	ranks := make([]uint16, max(count, 0))
	for i := range ranks {
		ranks[i] = uint16(min(i+1, math.MaxUint16))
	}
	return ranks
}
