package utils

// AliasFilter drops aliases that were already emitted for one query.
// Aliases are case-sensitive, so no folding happens here.
type AliasFilter struct {
	seen map[string]struct{}
}

// NewAliasFilter creates an empty filter sized for about n aliases.
func NewAliasFilter(n int) *AliasFilter {
	return &AliasFilter{seen: make(map[string]struct{}, n)}
}

// ShouldInclude reports whether alias is new and marks it as seen.
func (f *AliasFilter) ShouldInclude(alias string) bool {
	if _, ok := f.seen[alias]; ok {
		return false
	}
	f.seen[alias] = struct{}{}
	return true
}
