package scoringdomain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRow is a stored goal point row of one workout.
type LedgerRow struct {
	ID            uuid.UUID
	GoalID        uuid.UUID
	CompetitionID uuid.UUID
	Raw           decimal.Decimal
	Capped        decimal.Decimal
}

// Plan lists the ledger writes that bring a workout's goal rows in line with
// its current matches.
type Plan struct {
	Insert []GoalMatch
	Update []LedgerRow
	Delete []LedgerRow
}

// IsEmpty reports whether the ledger is already up to date.
func (p Plan) IsEmpty() bool {
	return len(p.Insert) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// CompetitionIDs lists the competitions touched by the plan, first seen first.
func (p Plan) CompetitionIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, m := range p.Insert {
		add(m.CompetitionID)
	}
	for _, r := range p.Update {
		add(r.CompetitionID)
	}
	for _, r := range p.Delete {
		add(r.CompetitionID)
	}
	return out
}

// PlanReconciliation diffs existing rows against desired matches by goal.
// Rows whose values already agree are left alone, so running the plan twice
// is a no-op the second time.
func PlanReconciliation(existing []LedgerRow, desired []GoalMatch) Plan {
	byGoal := make(map[uuid.UUID]LedgerRow, len(existing))
	for _, r := range existing {
		byGoal[r.GoalID] = r
	}

	var plan Plan
	wanted := make(map[uuid.UUID]struct{}, len(desired))
	for _, m := range desired {
		wanted[m.GoalID] = struct{}{}
		row, ok := byGoal[m.GoalID]
		if !ok {
			plan.Insert = append(plan.Insert, m)
			continue
		}
		capped := m.Capped()
		if row.Raw.Equal(m.Raw) && row.Capped.Equal(capped) {
			continue
		}
		row.Raw = m.Raw
		row.Capped = capped
		plan.Update = append(plan.Update, row)
	}
	for _, r := range existing {
		if _, ok := wanted[r.GoalID]; !ok {
			plan.Delete = append(plan.Delete, r)
		}
	}
	return plan
}
