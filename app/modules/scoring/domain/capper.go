package scoringdomain

import (
	competitiondomain "github.com/Black-And-White-Club/fitcomp/app/modules/competition/domain"
	"github.com/shopspring/decimal"
)

// Cap limits raw to limit when a limit is set. Negative values pass through.
func Cap(raw decimal.Decimal, limit decimal.NullDecimal) decimal.Decimal {
	if limit.Valid && raw.GreaterThan(limit.Decimal) {
		return limit.Decimal
	}
	return raw
}

// EffectiveCap is the goal's cap, falling back to the competition default.
func EffectiveCap(g competitiondomain.Goal, c competitiondomain.Competition) decimal.NullDecimal {
	if g.Cap.Valid {
		return g.Cap
	}
	return c.DefaultGoalCap
}
