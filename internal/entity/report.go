package entity

// GroupReport counts the outcomes of one group within a run.
type GroupReport struct {
	Group      GroupID
	URLs       int
	Suppressed bool
	Visited    int
	Invalid    int
	Failed     int
	// Problems counts failed requests and responses other than 200.
	Problems int
	// Aborted is set when processing of the group stopped on an unexpected error.
	Aborted bool
}

// Report aggregates the outcomes of a whole run, groups in processing order.
type Report struct {
	Hour   int
	Groups []*GroupReport
}

func NewReport(hour int) *Report {
	return &Report{Hour: hour}
}

// Group returns the report of id, creating it on first use.
func (r *Report) Group(id GroupID) *GroupReport {
	for _, g := range r.Groups {
		if g.Group == id {
			return g
		}
	}
	g := &GroupReport{Group: id}
	r.Groups = append(r.Groups, g)
	return g
}

func (r *Report) Add(id GroupID, outcome Outcome) {
	g := r.Group(id)
	switch outcome.Kind {
	case OutcomeVisited:
		g.Visited++
	case OutcomeInvalidURL:
		g.Invalid++
	case OutcomeFailed:
		g.Failed++
	}
	if outcome.Problem() {
		g.Problems++
	}
}

// Totals sums the counters of every group.
func (r *Report) Totals() GroupReport {
	var total GroupReport
	for _, g := range r.Groups {
		total.URLs += g.URLs
		total.Visited += g.Visited
		total.Invalid += g.Invalid
		total.Failed += g.Failed
		total.Problems += g.Problems
	}
	return total
}
