package query

import "strings"

// GuardRejectionMessage is the tool-visible error payload for queries that
// fail the read-only check.
const GuardRejectionMessage = "Read-only queries only."

// mutatingKeywords is the denylist applied to every candidate query. The
// check is a coarse lexical gate, not a parser: a statement that merely
// mentions one of these words (even inside a string literal or comment) is
// rejected. False positives are the accepted cost; chained statements or
// keyword synonyms are not caught here.
var mutatingKeywords = []string{
	"INSERT",
	"UPDATE",
	"DELETE",
	"DROP",
	"ALTER",
	"TRUNCATE",
}

// IsReadOnly reports whether the query contains none of the mutating
// keywords, case-insensitively. It performs no I/O and must be called before
// any query reaches the store.
func IsReadOnly(query string) bool {
	upper := strings.ToUpper(query)
	for _, kw := range mutatingKeywords {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	return true
}
