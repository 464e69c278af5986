package reranker

// defaultStopwords are common English words excluded from term
// extraction.
var defaultStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "be": {}, "been": {}, "being": {}, "have": {},
	"has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "it": {}, "its": {}, "of": {}, "in": {}, "to": {},
	"for": {}, "with": {}, "on": {}, "at": {}, "by": {}, "from": {},
	"as": {}, "or": {}, "and": {}, "if": {}, "then": {}, "else": {},
	"when": {}, "where": {}, "which": {}, "who": {}, "what": {},
	"how": {}, "all": {}, "each": {}, "every": {}, "both": {},
	"few": {}, "more": {}, "most": {}, "other": {}, "some": {},
	"such": {}, "no": {}, "not": {}, "only": {}, "own": {},
	"same": {}, "so": {}, "than": {}, "too": {}, "very": {},
	"just": {}, "also": {}, "now": {}, "here": {}, "there": {},
	"but": {}, "about": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {},
	"between": {}, "under": {}, "again": {}, "further": {}, "once": {},
}
