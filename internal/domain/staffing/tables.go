package staffing

import "sort"

// Tables holds the two source tables, loaded once at process start and treated
// as immutable afterwards. All aggregation is recomputed per request from the
// raw rows; there is no derived state to invalidate.
//
// Category strings are assumed pre-normalized (whitespace-trimmed) by the
// loader; comparisons everywhere are exact and case-sensitive.
type Tables struct {
	needs     []NeedRecord
	surpluses []SurplusRecord

	// First-observed-order unique category values per table. The surplus-table
	// district order is part of the district-extraction tool's contract.
	needDistricts    []string
	needBranches     []string
	surplusDistricts []string
	surplusBranches  []string
}

// NewTables builds an immutable table pair from loaded rows.
func NewTables(needs []NeedRecord, surpluses []SurplusRecord) *Tables {
	t := &Tables{
		needs:     make([]NeedRecord, len(needs)),
		surpluses: make([]SurplusRecord, len(surpluses)),
	}
	copy(t.needs, needs)
	copy(t.surpluses, surpluses)

	t.needDistricts = uniqueInOrder(t.needs, func(r NeedRecord) string { return r.District })
	t.needBranches = uniqueInOrder(t.needs, func(r NeedRecord) string { return r.Branch })
	t.surplusDistricts = uniqueInOrder(t.surpluses, func(r SurplusRecord) string { return r.District })
	t.surplusBranches = uniqueInOrder(t.surpluses, func(r SurplusRecord) string { return r.Branch })

	return t
}

// Needs returns the need rows. Callers must not mutate the returned slice.
func (t *Tables) Needs() []NeedRecord {
	return t.needs
}

// Surpluses returns the surplus rows. Callers must not mutate the returned slice.
func (t *Tables) Surpluses() []SurplusRecord {
	return t.surpluses
}

// Districts returns the sorted union of district values observed in either table.
func (t *Tables) Districts() []string {
	return sortedUnion(t.needDistricts, t.surplusDistricts)
}

// Branches returns the sorted union of branch values observed in either table.
func (t *Tables) Branches() []string {
	return sortedUnion(t.needBranches, t.surplusBranches)
}

// SurplusDistricts returns unique district values of the surplus table in
// first-observed order. The district-extraction tool iterates this order when
// resolving a district name by substring match.
func (t *Tables) SurplusDistricts() []string {
	return t.surplusDistricts
}

func uniqueInOrder[T any](rows []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(rows))
	var out []string
	for _, row := range rows {
		k := key(row)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func sortedUnion(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Selection is an optional category filter. A nil Selection matches everything.
type Selection map[string]struct{}

// NewSelection builds a Selection from the given values. No values means "all":
// the returned Selection is nil. The AllDistricts sentinel also resolves to nil.
func NewSelection(values ...string) Selection {
	filtered := make(Selection, len(values))
	for _, v := range values {
		if v == "" || v == AllDistricts {
			continue
		}
		filtered[v] = struct{}{}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

// Matches reports whether the value passes the filter.
func (s Selection) Matches(value string) bool {
	if s == nil {
		return true
	}
	_, ok := s[value]
	return ok
}
