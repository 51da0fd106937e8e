package usecase

import (
	"fmt"

	"github.com/calorietrack/backend/internal/domain"
)

// kcalPerKg is the energy equivalent of one kilogram of body weight,
// used to translate a weekly weight-change goal into a daily calorie
// adjustment.
const kcalPerKg = 7700.0

// BMR computes basal metabolic rate via the Mifflin-St Jeor equation.
// Sex must be one of the two accepted values; anything else is rejected
// rather than silently mapped to a default formula.
func BMR(sex domain.Sex, weightKg, heightCm float64, age int) (float64, error) {
	if !sex.Valid() {
		return 0, fmt.Errorf("%w: unsupported sex %q", domain.ErrInvalidInput, sex)
	}
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0, fmt.Errorf("%w: weight, height and age must be positive", domain.ErrInvalidInput)
	}

	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == domain.SexMale {
		return base + 5, nil
	}
	return base - 161, nil
}

// TDEE scales a BMR by the multiplier for the given activity level.
func TDEE(bmr float64, level domain.ActivityLevel) (float64, error) {
	factor, ok := domain.ActivityFactors[level]
	if !ok {
		return 0, fmt.Errorf("%w: unknown activity level %q", domain.ErrInvalidInput, level)
	}
	return bmr * factor, nil
}

// AdjustedCalories shifts a TDEE by the daily energy equivalent of the
// weekly weight-change goal. Negative deltas produce a deficit.
func AdjustedCalories(tdee, weeklyDeltaKg float64) float64 {
	return tdee + weeklyDeltaKg*kcalPerKg/7
}

// BMICalc computes body mass index from height in centimeters and weight
// in kilograms, with plausibility checks to reject garbage input.
func BMICalc(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, fmt.Errorf("%w: height and weight must be positive", domain.ErrInvalidInput)
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, fmt.Errorf("%w: height/weight out of plausible range", domain.ErrInvalidInput)
	}

	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

// BMICategory maps a BMI value to its WHO weight category label.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// ComputeTargets derives the full daily energy summary for a profile.
// Every input is required; an invalid or missing field fails the whole
// calculation instead of producing a partial result.
func ComputeTargets(m domain.ProfileMetrics) (*domain.CalorieTargets, error) {
	bmr, err := BMR(m.Sex, m.WeightKg, m.HeightCm, m.Age)
	if err != nil {
		return nil, err
	}

	tdee, err := TDEE(bmr, m.Activity)
	if err != nil {
		return nil, err
	}

	bmi, err := BMICalc(m.HeightCm, m.WeightKg)
	if err != nil {
		return nil, err
	}

	return &domain.CalorieTargets{
		BMR:                    bmr,
		TDEE:                   tdee,
		SuggestedDailyCalories: AdjustedCalories(tdee, m.WeeklyDeltaKg),
		BMI:                    bmi,
		BMICategory:            BMICategory(bmi),
	}, nil
}
