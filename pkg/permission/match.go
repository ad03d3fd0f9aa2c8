package permission

import (
	"slices"
	"sort"
	"strings"
)

// Matches reports whether a granted permission pattern covers the required
// permission.
//
// Rules:
//   - exact match: "lc:view" covers "lc:view"
//   - global wildcard: "*" covers anything
//   - resource wildcard: "lc:*" covers "lc:approve" but not "doc:view"
func Matches(required, granted string) bool {
	if granted == required || granted == string(Wildcard) {
		return true
	}
	if strings.HasSuffix(granted, Delimiter+WildcardToken) {
		prefix := strings.TrimSuffix(granted, WildcardToken)
		return strings.HasPrefix(required, prefix)
	}
	return false
}

// Has reports whether the granted set covers the required permission.
func Has(granted []string, required Permission) bool {
	for _, g := range granted {
		if Matches(string(required), g) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether the granted set covers every required
// permission. An empty required set is always covered.
func ContainsAll(granted []string, required []Permission) bool {
	if len(required) == 0 {
		return true
	}
	if len(granted) == 0 {
		return false
	}
	if slices.Contains(granted, string(Wildcard)) {
		return true
	}
	for _, req := range required {
		if !Has(granted, req) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether the granted set covers at least one required
// permission. An empty required set is always covered.
func ContainsAny(granted []string, required []Permission) bool {
	if len(required) == 0 {
		return true
	}
	if len(granted) == 0 {
		return false
	}
	if slices.Contains(granted, string(Wildcard)) {
		return true
	}
	for _, req := range required {
		if Has(granted, req) {
			return true
		}
	}
	return false
}

// Union merges permission sets into one deduplicated, sorted slice. This is
// the aggregation rule for a user holding several roles at once.
func Union(sets ...[]string) []string {
	total := 0
	for _, s := range sets {
		total += len(s)
	}
	if total == 0 {
		return nil
	}
	seen := make(map[string]struct{}, total)
	for _, s := range sets {
		for _, p := range s {
			if p != "" {
				seen[p] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Normalize removes duplicates and empty entries and sorts the result.
// Returns nil for empty input.
func Normalize(perms []string) []string {
	return Union(perms)
}
