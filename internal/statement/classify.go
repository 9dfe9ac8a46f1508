package statement

import "fmt"

// Classified is a row tagged with its kind. Reason is set for malformed rows.
type Classified struct {
	Kind    RowKind
	Row     RawRow
	Reason  string
	Profile Profile
}

// Classifier tags rows for a single run. The profile is fixed at construction,
// so a checking run never looks at credit card columns and vice versa.
type Classifier struct {
	profile Profile
}

func NewClassifier(m Mode) *Classifier {
	return &Classifier{profile: ProfileFor(m)}
}

func (c *Classifier) Profile() Profile {
	return c.profile
}

func (c *Classifier) Classify(row RawRow) Classified {
	return Classify(c.profile, row)
}

// Classify tags one row against a profile.
//
// The balance sentinel is checked before anything else: footer lines carry a
// different number of fields than the header and must not be reported as
// malformed.
func Classify(p Profile, row RawRow) Classified {
	out := Classified{Row: row, Profile: p}

	date, _ := row.Get(p.DateCol)
	if date == p.BalanceSentinel {
		out.Kind = KindBalance
		return out
	}

	if date == "" {
		return malformed(out, fmt.Sprintf("missing %s", p.DateCol))
	}

	if row.Problem != "" {
		return malformed(out, row.Problem)
	}

	for _, col := range p.requiredCols() {
		if _, ok := row.Get(col); !ok {
			return malformed(out, fmt.Sprintf("missing column %s", col))
		}
	}

	out.Kind = p.Kind

	return out
}

func malformed(c Classified, reason string) Classified {
	c.Kind = KindMalformed
	c.Reason = reason

	return c
}
