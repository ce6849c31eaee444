package table

import "fmt"

// LeftJoin joins another table onto this one by the given key column.
// Every row of the left table is retained; rows with no match on the right
// get nil for each joined column. When the right table has duplicate key
// values, the first occurrence wins. The key column must exist in both
// tables. The result is a new table; neither input is modified.
func (t *Table) LeftJoin(right *Table, key string) (*Table, error) {
	leftKeys, err := t.Col(key)
	if err != nil {
		return nil, fmt.Errorf("left table: %w", err)
	}
	rightKeys, err := right.Col(key)
	if err != nil {
		return nil, fmt.Errorf("right table: %w", err)
	}

	index := make(map[any]int, len(rightKeys))
	for i, k := range rightKeys {
		if k == nil {
			continue
		}
		if _, seen := index[k]; !seen {
			index[k] = i
		}
	}

	out := New()
	for _, name := range t.names {
		values := make([]any, t.Len())
		copy(values, t.columns[name])
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	for _, name := range right.names {
		if name == key || out.Has(name) {
			continue
		}
		source := right.columns[name]
		values := make([]any, t.Len())
		for i, k := range leftKeys {
			if k == nil {
				continue
			}
			if j, ok := index[k]; ok {
				values[i] = source[j]
			}
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	return out, nil
}
