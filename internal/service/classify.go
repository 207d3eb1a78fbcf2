package service

import "shelfwatch/internal/model"

// Classification is the decision for one incoming record relative to
// stored state.
type Classification int

const (
	ClassNew Classification = iota
	ClassChanged
	ClassUnchanged
)

func (c Classification) String() string {
	switch c {
	case ClassNew:
		return "new"
	case ClassChanged:
		return "changed"
	case ClassUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// FieldChange reports one schema field whose stored and incoming canonical
// string forms differ.
type FieldChange struct {
	Name     string
	Stored   string
	Incoming string
}

// Diff compares two normalized records over the full schema (id excluded)
// and returns every differing field. It never short-circuits, so callers
// can log the complete set of changes.
//
// Values are compared by their canonical string form, not by type. That
// tolerates the upstream feed flipping numeric and boolean representations
// between pulls at the cost of treating "1.0" and "1" as different values:
// an accepted false positive, never a false negative.
func Diff(incoming, stored *model.Record) []FieldChange {
	var changes []FieldChange
	for _, f := range model.Schema {
		if f.Name == "id" {
			continue
		}
		storedVal := f.Get(stored)
		incomingVal := f.Get(incoming)
		if storedVal != incomingVal {
			changes = append(changes, FieldChange{
				Name:     f.Name,
				Stored:   storedVal,
				Incoming: incomingVal,
			})
		}
	}
	return changes
}

// Classify decides whether the incoming record is new, changed, or
// unchanged relative to the stored record (nil = never seen).
func Classify(incoming *model.Record, stored *model.Record) Classification {
	if stored == nil {
		return ClassNew
	}
	if len(Diff(incoming, stored)) > 0 {
		return ClassChanged
	}
	return ClassUnchanged
}
