package recommend

import "strings"

// denylist is a fixed set of terms that reject a seed outright. Matching is
// a case-insensitive substring check; this is deliberately crude, the goal
// is to avoid spending paid API calls on junk input, not content moderation.
var denylist = []string{
	"fuck",
	"shit",
	"bitch",
	"cunt",
	"asshole",
	"dickhead",
	"nigger",
	"faggot",
}

// Blocked reports whether text contains a denylisted term.
func Blocked(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range denylist {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
