// Package domain contains pure, dependency-free domain models and types
// for the scoring and certification engine.
package domain

// Role identifies the privilege level of a caller within the engine.
// Roles are resolved by the surrounding application's identity provider;
// the engine never infers a role from ambient state.
type Role string

// Recognized caller roles.
const (
	// RoleOrganizer is the elevated administrative role. It is the only
	// role permitted to unsign certifications and retire participants.
	RoleOrganizer Role = "organizer"

	// RoleJudge may submit scores and sign judge certifications for
	// subcategories it is assigned to.
	RoleJudge Role = "judge"

	// RoleTally verifies aggregated totals after all judges have certified.
	RoleTally Role = "tally"

	// RoleAuditor records the final certification for a scope.
	RoleAuditor Role = "auditor"

	// RoleBoard participates in discrepancy resolution alongside the
	// tally and auditor roles.
	RoleBoard Role = "board"
)

// Identity is the resolved caller passed into every engine operation.
// SignatureName is the stable display name certifications are signed with.
type Identity struct {
	// ID is the caller's stable identifier.
	ID string

	// Role is the caller's privilege level.
	Role Role

	// SignatureName is the recorded name the caller must sign with.
	SignatureName string
}

// Contest is the top-level competition scope.
type Contest struct {
	ID   string
	Name string
}

// Category groups subcategories within a contest.
type Category struct {
	ID        string
	ContestID string
	Name      string
}

// Subcategory is the finest-grained unit a judge scores within.
// ScoreCapOverride, when set, replaces every criterion's maximum as the
// upper bound for submitted values in this subcategory.
type Subcategory struct {
	ID         string
	CategoryID string
	Name       string

	// ScoreCapOverride replaces the per-criterion maximum when non-nil.
	ScoreCapOverride *float64
}

// Criterion is one scored dimension within a subcategory.
// MaxScore must be positive. Raising or lowering the cap does not
// retroactively rescale scores already recorded against it.
type Criterion struct {
	ID            string
	SubcategoryID string
	Name          string
	MaxScore      float64
}

// EffectiveCap returns the upper bound for scores against this criterion
// within the given subcategory: the subcategory's override if present,
// otherwise the criterion's own maximum.
func (c Criterion) EffectiveCap(sub Subcategory) float64 {
	if sub.ScoreCapOverride != nil {
		return *sub.ScoreCapOverride
	}
	return c.MaxScore
}

// Contestant is a competitor assigned to one or more subcategories.
// Seq is the creation order and is the documented tie-break for ranking:
// contestants with equal net totals retain Seq order.
type Contestant struct {
	ID   string
	Name string
	Seq  int64
}

// Judge is a scoring panel member. PreferredName is the recorded identity
// a judge certification signature must match exactly.
type Judge struct {
	ID            string
	Name          string
	PreferredName string
}
