package domain

import "fmt"

// ActivityType is the closed set of session kinds a training can record.
type ActivityType string

const (
	ActivityRunning  ActivityType = "RUNNING"
	ActivityCycling  ActivityType = "CYCLING"
	ActivityWalking  ActivityType = "WALKING"
	ActivitySwimming ActivityType = "SWIMMING"
	ActivityTennis   ActivityType = "TENNIS"
)

var activityLabels = map[ActivityType]string{
	ActivityRunning:  "Running",
	ActivityCycling:  "Cycling",
	ActivityWalking:  "Walking",
	ActivitySwimming: "Swimming",
	ActivityTennis:   "Tennis",
}

// ActivityTypes returns every supported activity type in declaration order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityRunning,
		ActivityCycling,
		ActivityWalking,
		ActivitySwimming,
		ActivityTennis,
	}
}

// DisplayName returns the human-readable label for the activity type.
func (a ActivityType) DisplayName() string {
	return activityLabels[a]
}

// Valid reports whether the value is a member of the enumeration.
func (a ActivityType) Valid() bool {
	_, ok := activityLabels[a]
	return ok
}

// ParseActivityType maps external input onto the enumeration.
func ParseActivityType(value string) (ActivityType, error) {
	activity := ActivityType(value)
	if !activity.Valid() {
		return "", fmt.Errorf("unknown activity type: %q", value)
	}
	return activity, nil
}
