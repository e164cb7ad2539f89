package store

// Table is one write unit: an ordered set of rows for a named table, keyed
// by the column the delete phase matches on. DeleteSQL, when set, is the
// externally supplied statement text with one %s slot for the placeholder
// list; when empty the writer synthesizes a plain keyed delete.
type Table struct {
	Name      string
	Columns   []string
	Key       string
	DeleteSQL string
	Rows      [][]any
}

// Keys returns the distinct key values across rows, in first-seen order.
func (t Table) Keys() []any {
	idx := -1
	for i, c := range t.Columns {
		if c == t.Key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	seen := make(map[any]bool, len(t.Rows))
	var out []any
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		k := row[idx]
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
