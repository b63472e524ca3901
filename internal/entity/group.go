package entity

// GroupID names one of the fixed URL groups.
type GroupID string

const (
	GroupPrimary GroupID = "primary"
	Group1       GroupID = "group1"
	Group2       GroupID = "group2"
	Group3       GroupID = "group3"
)

// VisitOrder is the order groups are processed in during a run.
var VisitOrder = []GroupID{Group3, GroupPrimary, Group1, Group2}

// Groups lists every known group, primary first.
var Groups = []GroupID{GroupPrimary, Group1, Group2, Group3}

// Valid reports whether id is one of the known groups.
func (id GroupID) Valid() bool {
	for _, g := range Groups {
		if g == id {
			return true
		}
	}
	return false
}
