package workoutdomain

// SportType identifies the activity of a workout. Values follow the
// activity-provider naming so synced workouts map without translation.
type SportType string

const (
	SportBadminton         SportType = "Badminton"
	SportRide              SportType = "Ride"
	SportEBikeRide         SportType = "EBikeRide"
	SportGravelRide        SportType = "GravelRide"
	SportHandcycle         SportType = "Handcycle"
	SportVelomobile        SportType = "Velomobile"
	SportVirtualRide       SportType = "VirtualRide"
	SportCanoeing          SportType = "Canoeing"
	SportCrossfit          SportType = "Crossfit"
	SportElliptical        SportType = "Elliptical"
	SportGolf              SportType = "Golf"
	SportHIIT              SportType = "HighIntensityIntervalTraining"
	SportHike              SportType = "Hike"
	SportIceSkate          SportType = "IceSkate"
	SportInlineSkate       SportType = "InlineSkate"
	SportKayaking          SportType = "Kayaking"
	SportKitesurf          SportType = "Kitesurf"
	SportMountainBikeRide  SportType = "MountainBikeRide"
	SportEMountainBikeRide SportType = "EMountainBikeRide"
	SportPickleball        SportType = "Pickleball"
	SportPilates           SportType = "Pilates"
	SportRacquetball       SportType = "Racquetball"
	SportRockClimbing      SportType = "RockClimbing"
	SportRowing            SportType = "Rowing"
	SportVirtualRow        SportType = "VirtualRow"
	SportRun               SportType = "Run"
	SportTrailRun          SportType = "TrailRun"
	SportVirtualRun        SportType = "VirtualRun"
	SportSail              SportType = "Sail"
	SportSkateboard        SportType = "Skateboard"
	SportAlpineSki         SportType = "AlpineSki"
	SportBackcountrySki    SportType = "BackcountrySki"
	SportNordicSki         SportType = "NordicSki"
	SportRollerSki         SportType = "RollerSki"
	SportSnowboard         SportType = "Snowboard"
	SportSoccer            SportType = "Soccer"
	SportSquash            SportType = "Squash"
	SportStairStepper      SportType = "StairStepper"
	SportStandUpPaddling   SportType = "StandUpPaddling"
	SportSurfing           SportType = "Surfing"
	SportSwim              SportType = "Swim"
	SportTableTennis       SportType = "TableTennis"
	SportTennis            SportType = "Tennis"
	SportWalk              SportType = "Walk"
	SportSnowshoe          SportType = "Snowshoe"
	SportWeightTraining    SportType = "WeightTraining"
	SportWheelchair        SportType = "Wheelchair"
	SportWindsurf          SportType = "Windsurf"
	SportWorkout           SportType = "Workout"
	SportYoga              SportType = "Yoga"
)

var sportLabels = map[SportType]string{
	SportBadminton:         "Badminton",
	SportRide:              "Biking/Cycling",
	SportEBikeRide:         "Biking/Cycling (E-Bike)",
	SportGravelRide:        "Biking/Cycling (Gravel)",
	SportHandcycle:         "Biking/Cycling (Handcycle)",
	SportVelomobile:        "Biking/Cycling (Velomobile)",
	SportVirtualRide:       "Biking/Cycling (Virtual)",
	SportCanoeing:          "Canoe",
	SportCrossfit:          "Crossfit",
	SportElliptical:        "Elliptical",
	SportGolf:              "Golf",
	SportHIIT:              "High Intensity Interval Training (HIIT)",
	SportHike:              "Hike",
	SportIceSkate:          "Ice Skate",
	SportInlineSkate:       "Inline Skate",
	SportKayaking:          "Kayak",
	SportKitesurf:          "Kitesurf",
	SportMountainBikeRide:  "Mountain-Biking/Cycling",
	SportEMountainBikeRide: "Mountain-Biking/Cycling (E-Bike)",
	SportPickleball:        "Pickleball",
	SportPilates:           "Pilates",
	SportRacquetball:       "Racquetball",
	SportRockClimbing:      "Rock Climbing",
	SportRowing:            "Rowing (Outdoor)",
	SportVirtualRow:        "Rowing (Virtual)",
	SportRun:               "Run",
	SportTrailRun:          "Run (Trail)",
	SportVirtualRun:        "Run (Treadmill / Virtual)",
	SportSail:              "Sail",
	SportSkateboard:        "Skateboard",
	SportAlpineSki:         "Ski (Alpine)",
	SportBackcountrySki:    "Ski (Backcountry)",
	SportNordicSki:         "Ski (Nordic)",
	SportRollerSki:         "Ski (Roller/Inliner)",
	SportSnowboard:         "Snowboard",
	SportSoccer:            "Soccer / Football",
	SportSquash:            "Squash",
	SportStairStepper:      "Stair Stepper",
	SportStandUpPaddling:   "Stand-up Paddling",
	SportSurfing:           "Surf",
	SportSwim:              "Swim",
	SportTableTennis:       "Table Tennis",
	SportTennis:            "Tennis",
	SportWalk:              "Walk",
	SportSnowshoe:          "Walk (Snowshoe)",
	SportWeightTraining:    "Weight Training",
	SportWheelchair:        "Wheelchair",
	SportWindsurf:          "Windsurf",
	SportWorkout:           "Workout / Other",
	SportYoga:              "Yoga",
}

// Valid reports whether s is a known sport.
func (s SportType) Valid() bool {
	_, ok := sportLabels[s]
	return ok
}

// Label is the human readable name of the sport.
func (s SportType) Label() string {
	if l, ok := sportLabels[s]; ok {
		return l
	}
	return string(s)
}

// SportGroup bundles sports for goal predicates.
type SportGroup string

const (
	GroupAny            SportGroup = "GROUP_ANY"
	GroupRunning        SportGroup = "GROUP_RUNNING"
	GroupBiking         SportGroup = "GROUP_BIKING"
	GroupWalking        SportGroup = "GROUP_WALKING"
	GroupRacket         SportGroup = "GROUP_RACKET"
	GroupSocial         SportGroup = "GROUP_SOCIAL"
	GroupClassesCardio  SportGroup = "GROUP_CLASSES_CARDIO"
	GroupClassesMindful SportGroup = "GROUP_CLASSES_MINDFUL"
	GroupWaterActive    SportGroup = "GROUP_WATER_ACTIVE"
)

var groupMembers = map[SportGroup][]SportType{
	GroupAny:     nil,
	GroupRunning: {SportRun, SportTrailRun, SportVirtualRun},
	// E-bikes are excluded on purpose.
	GroupBiking:         {SportRide, SportGravelRide, SportHandcycle, SportVelomobile, SportVirtualRide, SportMountainBikeRide},
	GroupWalking:        {SportWalk, SportWheelchair, SportElliptical, SportStairStepper},
	GroupRacket:         {SportTennis, SportSquash, SportBadminton, SportPickleball, SportRacquetball, SportTableTennis},
	GroupSocial:         {SportSoccer, SportGolf},
	GroupClassesCardio:  {SportCrossfit, SportHIIT},
	GroupClassesMindful: {SportYoga, SportPilates},
	GroupWaterActive:    {SportSwim, SportCanoeing, SportKayaking, SportKitesurf, SportRowing, SportSurfing, SportWindsurf},
}

// Valid reports whether g is a known group.
func (g SportGroup) Valid() bool {
	_, ok := groupMembers[g]
	return ok
}

// Contains reports whether sport s belongs to the group. GroupAny contains every known sport.
func (g SportGroup) Contains(s SportType) bool {
	if g == GroupAny {
		return s.Valid()
	}
	for _, member := range groupMembers[g] {
		if member == s {
			return true
		}
	}
	return false
}
