package scoring

// Composite is a weighted MFI score. Completeness is false when any of the
// three inputs was missing and contributed nothing.
type Composite struct {
	Value        Percent `json:"value"`
	Completeness bool    `json:"completeness"`
}

// CompositeScore computes self*w.Self + pt*w.PT + ieg*w.IEG. Missing inputs
// contribute 0 and clear Completeness; with no inputs at all the value is
// Unscored.
func CompositeScore(self, pt, ieg Percent, w Weights) (Composite, error) {
	if err := w.Validate(); err != nil {
		return Composite{}, err
	}
	terms := []struct {
		field  string
		p      Percent
		weight float64
	}{
		{"selfScore", self, w.Self},
		{"productTestScore", pt, w.PT},
		{"iegScore", ieg, w.IEG},
	}
	var sum float64
	present := 0
	for _, t := range terms {
		if err := checkPercent(t.field, t.p); err != nil {
			return Composite{}, err
		}
		if !t.p.Scored {
			continue
		}
		sum += t.p.Value * t.weight
		present++
	}
	if present == 0 {
		return Composite{Value: Unscored}, nil
	}
	return Composite{Value: Scored(sum), Completeness: present == len(terms)}, nil
}
