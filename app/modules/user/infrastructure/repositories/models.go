package userdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// User is an athlete. Only the fields scoring and leaderboards read live here.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	Username          string          `bun:"username,notnull,unique" json:"username"`
	ScalingKcal       decimal.Decimal `bun:"scaling_kcal,type:numeric(4,2),notnull,default:1" json:"scaling_kcal"`
	StravaAllowFollow bool            `bun:"strava_allow_follow,notnull,default:false" json:"strava_allow_follow"`
	StravaAthleteID   *int64          `bun:"strava_athlete_id" json:"strava_athlete_id,omitempty"`
	CreatedAt         time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// PublicAthleteID returns the provider athlete id only when the user allows following.
func (u *User) PublicAthleteID() *int64 {
	if u == nil || !u.StravaAllowFollow {
		return nil
	}
	return u.StravaAthleteID
}
