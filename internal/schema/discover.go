package schema

// Discover looks for a column shared by two tables imported one after the
// other. Only adjacent pairs are compared, in import order, and the first
// pair that shares a column wins; its first shared column (in the earlier
// table's column order) becomes the candidate.
func Discover(r *ImportRecord) (RelationshipCandidate, bool) {
	tables := r.Tables()
	for i := 0; i+1 < len(tables); i++ {
		left, right := tables[i], tables[i+1]
		next := make(map[string]bool)
		for _, c := range r.Columns(right) {
			next[c] = true
		}
		for _, c := range r.Columns(left) {
			if next[c] {
				return RelationshipCandidate{Column: c, Left: left, Right: right}, true
			}
		}
	}
	return RelationshipCandidate{}, false
}

// ReferenceTable picks the table referenced by a foreign key placed on
// tables[chosen]: the first table in import order other than the chosen one.
// With two tables this is simply the other table.
func ReferenceTable(tables []string, chosen int) (string, bool) {
	for i, t := range tables {
		if i != chosen {
			return t, true
		}
	}
	return "", false
}
