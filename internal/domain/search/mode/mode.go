package mode

// Mode is the query strategy.
type Mode string

// Search mode constants.
const (
	// Keyword is full-text search over the searchable fields.
	Keyword  Mode = "keyword"
	Category Mode = "category"
	// Advanced combines a keyword with a category filter.
	Advanced Mode = "advanced"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Keyword || m == Category || m == Advanced
}

// EmptyTermPolicy decides what an empty keyword means.
type EmptyTermPolicy string

// Empty term policies.
const (
	// MatchAll treats an empty keyword as "every document".
	MatchAll  EmptyTermPolicy = "match_all"
	NoResults EmptyTermPolicy = "no_results"
)

// IsValid checks if the policy is one of the supported values.
func (p EmptyTermPolicy) IsValid() bool {
	return p == MatchAll || p == NoResults
}
