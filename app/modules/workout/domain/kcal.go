package workoutdomain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Intensity is the self-reported effort category, 1 (easy) to 4 (all out).
type Intensity int

const (
	IntensityEasy     Intensity = 1
	IntensityModerate Intensity = 2
	IntensityHard     Intensity = 3
	IntensityAllOut   Intensity = 4

	DefaultIntensity = IntensityModerate
)

// Valid reports whether i is one of the four categories.
func (i Intensity) Valid() bool {
	return i >= IntensityEasy && i <= IntensityAllOut
}

// referenceBodyMassKg is the body mass the MET table is applied to before
// per-user scaling.
const referenceBodyMassKg = 75

// metTable holds metabolic equivalents per sport, indexed by intensity-1.
// Source: Adult Compendium of Physical Activities.
var metTable = map[SportType][4]float64{
	SportBadminton:         {5.0, 5.5, 7.0, 9.0},
	SportRide:              {4.3, 7.0, 9.0, 12.0},
	SportEBikeRide:         {4.0, 6.0, 6.8, 7.0},
	SportGravelRide:        {4.3, 7.0, 9.0, 12.0},
	SportHandcycle:         {4.3, 7.0, 9.0, 12.0},
	SportVelomobile:        {4.3, 7.0, 9.0, 12.0},
	SportVirtualRide:       {4.3, 7.0, 9.0, 12.0},
	SportCanoeing:          {2.8, 3.5, 5.8, 12.0},
	SportCrossfit:          {3.5, 5.0, 6.0, 7.5},
	SportElliptical:        {3.0, 5.0, 7.0, 9.0},
	SportGolf:              {3.5, 4.3, 4.5, 4.8},
	SportHIIT:              {5.0, 7.0, 9.0, 11.0},
	SportHike:              {3.8, 5.3, 6.0, 6.5},
	SportIceSkate:          {7.5, 9.8, 12.3, 15.5},
	SportInlineSkate:       {7.5, 9.8, 12.3, 15.5},
	SportKayaking:          {5.0, 7.0, 9.0, 13.5},
	SportKitesurf:          {8.0, 9.5, 11.0, 12.5},
	SportMountainBikeRide:  {7.0, 9.0, 11.0, 14.0},
	SportEMountainBikeRide: {6.0, 8.0, 8.8, 9.0},
	SportPickleball:        {5.0, 5.5, 7.0, 9.0},
	SportPilates:           {1.8, 2.8, 4.0, 5.5},
	SportRacquetball:       {5.5, 7.0, 8.5, 10.0},
	SportRockClimbing:      {5.8, 7.3, 8.8, 10.5},
	SportRowing:            {5.0, 7.5, 11.0, 14.0},
	SportVirtualRow:        {5.0, 7.5, 11.0, 14.0},
	SportRun:               {7.8, 10.5, 11.8, 13.0},
	SportTrailRun:          {7.8, 10.5, 11.8, 13.0},
	SportVirtualRun:        {7.8, 10.5, 11.8, 13.0},
	SportSail:              {3.0, 3.3, 4.5, 9.3},
	SportSkateboard:        {5.0, 6.0, 6.8, 8.5},
	SportAlpineSki:         {4.3, 6.3, 7.3, 8.0},
	SportBackcountrySki:    {6.8, 8.5, 9.5, 11.3},
	SportNordicSki:         {8.5, 11.3, 13.5, 14.0},
	SportRollerSki:         {6.8, 8.5, 9.5, 11.3},
	SportSnowboard:         {4.3, 6.3, 7.5, 8.0},
	SportSoccer:            {3.5, 5.5, 7.0, 9.5},
	SportSquash:            {5.0, 7.3, 9.0, 12.0},
	SportStairStepper:      {5.5, 6.0, 8.0, 11.0},
	SportStandUpPaddling:   {2.8, 3.8, 5.0, 9.8},
	SportSurfing:           {3.0, 5.0, 7.0, 9.0},
	SportSwim:              {5.8, 8.0, 9.8, 10.5},
	SportTableTennis:       {3.5, 4.0, 5.5, 7.0},
	SportTennis:            {5.0, 6.0, 6.8, 8.0},
	SportWalk:              {3.0, 3.8, 4.8, 5.5},
	SportSnowshoe:          {5.0, 5.8, 6.8, 7.5},
	SportWeightTraining:    {3.0, 3.5, 5.0, 6.0},
	SportWheelchair:        {3.3, 3.8, 5.3, 6.3},
	SportWindsurf:          {5.0, 7.0, 11.0, 14.0},
	SportWorkout:           {2.5, 4.0, 6.0, 8.0},
	SportYoga:              {2.0, 3.0, 4.0, 6.0},
}

// MET returns the metabolic equivalent for sport at intensity. Unknown sports
// use the generic Workout row and invalid intensities the default category.
func MET(sport SportType, intensity Intensity) decimal.Decimal {
	row, ok := metTable[sport]
	if !ok {
		row = metTable[SportWorkout]
	}
	if !intensity.Valid() {
		intensity = DefaultIntensity
	}
	return decimal.NewFromFloat(row[intensity-1])
}

// EstimateKcal derives energy expenditure as MET x 75 kg x hours x scaling.
func EstimateKcal(sport SportType, intensity Intensity, duration time.Duration, scaling decimal.Decimal) decimal.Decimal {
	if scaling.IsZero() {
		scaling = decimal.NewFromInt(1)
	}
	seconds := decimal.NewFromInt(int64(duration / time.Second))
	return MET(sport, intensity).
		Mul(decimal.NewFromInt(referenceBodyMassKg)).
		Mul(seconds).
		Div(decimal.NewFromInt(3600)).
		Mul(scaling).
		Round(2)
}
