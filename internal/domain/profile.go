package domain

// Sex is the closed two-value enumeration used by the Mifflin-St Jeor
// formula. Any other value is rejected with ErrInvalidInput rather than
// silently falling back to one of the formulas.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid reports whether s is one of the two accepted values.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// ActivityLevel selects one of the five fixed TDEE multipliers.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very"
	ActivityAthlete   ActivityLevel = "athlete"
)

// ActivityFactors maps each activity level to its TDEE multiplier.
// This is the single source of truth for valid levels, also used for
// input validation.
var ActivityFactors = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityVery:      1.725,
	ActivityAthlete:   1.9,
}

// ProfileMetrics is the complete input for the calorie target calculation.
// All fields are required; the calculation fails rather than guessing
// when any of them is missing or out of range.
type ProfileMetrics struct {
	Sex           Sex           `json:"sex"`
	WeightKg      float64       `json:"weightKg"`
	HeightCm      float64       `json:"heightCm"`
	Age           int           `json:"age"`
	Activity      ActivityLevel `json:"activity"`
	WeeklyDeltaKg float64       `json:"weeklyDeltaKg"`
}

// CalorieTargets is the derived daily energy summary for a profile.
type CalorieTargets struct {
	BMR                    float64 `json:"bmr"`
	TDEE                   float64 `json:"tdee"`
	SuggestedDailyCalories float64 `json:"suggestedDailyCalories"`
	BMI                    float64 `json:"bmi"`
	BMICategory            string  `json:"bmiCategory"`
}
