package leaderboard

import "sort"

// Rank orders entries by solved count descending, then total time ascending,
// then user ID ascending as the documented tie-break, and assigns dense ranks
// 1..N. The tertiary key makes rank assignment reproducible across runs even
// for users with identical scores.
func Rank(entries []Entry) []Entry {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.SolvedCount != b.SolvedCount {
			return a.SolvedCount > b.SolvedCount
		}
		if a.TotalTimeMs != b.TotalTimeMs {
			return a.TotalTimeMs < b.TotalTimeMs
		}
		return a.UserID < b.UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
