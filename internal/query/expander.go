package query

import (
	"strings"

	"github.com/lexweave/asklaw/internal/domain"
)

// jurisdictionKeywords: if none of these appear, the default jurisdiction
// clause is appended.
var jurisdictionKeywords = []string{
	"federal", "state", "jurisdiction", "circuit", "district",
	"supreme court", "appellate", "california", "new york", "texas",
}

// temporalKeywords: any of these triggers the recent-developments clause.
var temporalKeywords = []string{
	"recent", "current", "new", "latest", "updated", "modern",
	"today", "now", "contemporary",
}

const (
	jurisdictionClause = " (considering federal and applicable state law)"
	temporalClause     = ", including recent legal developments"
)

// conceptTable maps legal areas to related concepts. Up to two concepts per
// matched area are appended during expansion; iteration order is fixed.
var conceptTable = []struct {
	Area     string
	Concepts []string
}{
	{"contract", []string{"consideration", "breach of contract", "specific performance"}},
	{"tort", []string{"negligence", "duty of care", "proximate cause"}},
	{"constitutional", []string{"due process", "equal protection", "judicial review"}},
	{"criminal", []string{"mens rea", "actus reus", "burden of proof"}},
	{"corporate", []string{"fiduciary duty", "piercing the corporate veil", "shareholder rights"}},
	{"property", []string{"adverse possession", "easement", "fee simple"}},
}

// ExtractConcepts returns related legal concepts for each legal area
// mentioned in the query: at most two per area, deduped, in table order.
func ExtractConcepts(q string) []string {
	lower := strings.ToLower(q)

	var concepts []string
	seen := make(map[string]bool)
	for _, entry := range conceptTable {
		if !strings.Contains(lower, entry.Area) {
			continue
		}
		added := 0
		for _, c := range entry.Concepts {
			if added == 2 {
				break
			}
			if seen[c] {
				continue
			}
			seen[c] = true
			concepts = append(concepts, c)
			added++
		}
	}
	return concepts
}

// Expand augments a query with jurisdiction, temporal, and legal-concept
// hints. The expansion is strictly append-only and the clause order is
// fixed: jurisdiction, then temporal, then concepts. The input text is
// never modified or normalized.
func Expand(q string, qctx domain.QueryContext) string {
	lower := strings.ToLower(q)
	expanded := q

	if !containsAny(lower, jurisdictionKeywords) {
		expanded += jurisdictionClause
	}

	if containsAny(lower, temporalKeywords) {
		expanded += temporalClause
	}

	if concepts := ExtractConcepts(q); len(concepts) > 0 {
		expanded += " (related concepts: " + strings.Join(concepts, ", ") + ")"
	}

	return expanded
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
