package model

// TDistMult scores triples bilinearly: plausibility is the trilinear
// product <s, r+t, o>, larger meaning more plausible. The relation-time
// representation uses the same additive composition as TTransE; richer
// sequence encoders live behind the Scorer boundary in their own
// implementations.
type TDistMult struct {
	Emb *Embeddings
}

// Kind implements Scorer.
func (m *TDistMult) Kind() Kind { return KindTDistMult }

// EntityCount implements Scorer.
func (m *TDistMult) EntityCount() int { return len(m.Emb.Entity) }

// Dim implements Scorer.
func (m *TDistMult) Dim() int { return m.Emb.Dim }

// Entity implements Scorer.
func (m *TDistMult) Entity(id int) []float64 { return m.Emb.Entity[id] }

// RelationTime sums the relation embedding with the temporal token
// embeddings.
func (m *TDistMult) RelationTime(rel int, temporal []int) []float64 {
	rt := make([]float64, m.Emb.Dim)
	copy(rt, m.Emb.Relation[rel])
	for _, tok := range temporal {
		row := m.Emb.Temporal[tok]
		for d := range rt {
			rt[d] += row[d]
		}
	}
	return rt
}

// Combine is the elementwise product of the fixed entity and the
// relation-time vector; the trilinear score is symmetric in the two entity
// slots, so both sides build the query the same way.
func (m *TDistMult) Combine(side Side, entity, relTime []float64) []float64 {
	q := make([]float64, len(entity))
	for d := range q {
		q[d] = entity[d] * relTime[d]
	}
	return q
}

// Plausibility is the dot product of query and candidate.
func (m *TDistMult) Plausibility(query, candidate []float64) float64 {
	return dot(query, candidate)
}

// Score implements Scorer for a single triple.
func (m *TDistMult) Score(sub, obj, rel int, temporal []int) float64 {
	rt := m.RelationTime(rel, temporal)
	q := m.Combine(SideTail, m.Emb.Entity[sub], rt)
	return m.Plausibility(q, m.Emb.Entity[obj])
}
