package model

// TTransE scores triples translationally: the relation plus its temporal
// tokens shift the subject toward the object, s + r + t ≈ o, and a smaller
// shift error means a more plausible fact. Plausibility is the negated L1
// or L2 distance so ranking shares the descending contract with the
// bilinear family.
type TTransE struct {
	Emb *Embeddings
	L1  bool
}

// Kind implements Scorer.
func (m *TTransE) Kind() Kind { return KindTTransE }

// EntityCount implements Scorer.
func (m *TTransE) EntityCount() int { return len(m.Emb.Entity) }

// Dim implements Scorer.
func (m *TTransE) Dim() int { return m.Emb.Dim }

// Entity implements Scorer.
func (m *TTransE) Entity(id int) []float64 { return m.Emb.Entity[id] }

// RelationTime sums the relation embedding with the embeddings of every
// temporal token in the triple's sequence.
func (m *TTransE) RelationTime(rel int, temporal []int) []float64 {
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

// Combine builds the translational query: the object moves back against the
// relation-time shift when ranking subjects, the subject moves forward with
// it when ranking objects.
func (m *TTransE) Combine(side Side, entity, relTime []float64) []float64 {
	q := make([]float64, len(entity))
	if side == SideHead {
		for d := range q {
			q[d] = entity[d] - relTime[d]
		}
	} else {
		for d := range q {
			q[d] = entity[d] + relTime[d]
		}
	}
	return q
}

// Plausibility is the negated distance between query and candidate.
func (m *TTransE) Plausibility(query, candidate []float64) float64 {
	if m.L1 {
		return -l1Distance(query, candidate)
	}
	return -l2Distance(query, candidate)
}

// Score implements Scorer for a single triple.
func (m *TTransE) Score(sub, obj, rel int, temporal []int) float64 {
	rt := m.RelationTime(rel, temporal)
	q := m.Combine(SideTail, m.Emb.Entity[sub], rt)
	return m.Plausibility(q, m.Emb.Entity[obj])
}
