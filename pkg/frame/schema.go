package frame

// Schema describes the structure of a table.
type Schema struct {
	Names []string
	Kinds []Kind
}

// Schema returns the column names and kinds in order.
func (t *Table) Schema() Schema {
	s := Schema{Names: make([]string, len(t.cols)), Kinds: make([]Kind, len(t.cols))}
	for i, c := range t.cols {
		s.Names[i] = c.Name()
		s.Kinds[i] = c.Kind()
	}
	return s
}

// Kind returns the kind of the named column, or KindInvalid.
func (s Schema) Kind(name string) Kind {
	for i, n := range s.Names {
		if n == name {
			return s.Kinds[i]
		}
	}
	return KindInvalid
}
