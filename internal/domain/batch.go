package domain

// Batch stages graph rows from one or more parsed literals before a bulk
// write. The populator flushes it whenever Size crosses its threshold.
type Batch struct {
	Literals    []Literal
	Entries     []LexicalEntry
	Senses      []LexicalSense
	Inflections []InflectionForm
	Relations   []Relation
}

// Add stages every row a parsed literal produced: the literal itself, its
// entries and their senses, inflection facts and typed relations, including
// the literal-level anagram edges.
func (b *Batch) Add(lit *Literal) {
	b.Literals = append(b.Literals, *lit)
	b.Relations = append(b.Relations, lit.Anagrams...)
	for _, entry := range lit.Entries {
		b.Entries = append(b.Entries, entry)
		b.Senses = append(b.Senses, entry.Senses...)
		b.Inflections = append(b.Inflections, entry.Inflections...)
		b.Relations = append(b.Relations, entry.Relations...)
	}
}

// Size is the total number of staged rows.
func (b *Batch) Size() int {
	return len(b.Literals) + len(b.Entries) + len(b.Senses) +
		len(b.Inflections) + len(b.Relations)
}

// Reset empties the batch keeping the allocated capacity.
func (b *Batch) Reset() {
	b.Literals = b.Literals[:0]
	b.Entries = b.Entries[:0]
	b.Senses = b.Senses[:0]
	b.Inflections = b.Inflections[:0]
	b.Relations = b.Relations[:0]
}

// BatchCounts reports the rows actually inserted by one batch write.
type BatchCounts struct {
	Literals    int
	Entries     int
	Senses      int
	Inflections int
	Relations   int
}

// Total sums the per-table counts.
func (c BatchCounts) Total() int {
	return c.Literals + c.Entries + c.Senses + c.Inflections + c.Relations
}

// GraphCounts is the per-table row totals of the whole store.
type GraphCounts struct {
	Literals    int64
	Entries     int64
	Senses      int64
	Inflections int64
	Relations   int64
}
