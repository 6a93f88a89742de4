package leaderboard

import "strings"

// Separator characters dropped during normalization. Problem codes arrive in
// slightly different spellings from the catalog and from submissions
// ("1234-A" vs "1234A"), so both sides go through Normalize before matching.
const separators = "-_ "

// Normalize canonicalizes a problem code by removing cosmetic separators.
// Nothing else: no case folding, no trimming.
func Normalize(code string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return -1
		}
		return r
	}, code)
}
