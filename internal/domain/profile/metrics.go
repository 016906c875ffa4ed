package profile

import "math"

// Gender selects the Harris-Benedict coefficients.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel scales basal metabolic rate to daily expenditure.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// CalorieStatus classifies intake against the goal.
type CalorieStatus string

const (
	StatusUnder CalorieStatus = "under"
	StatusGood  CalorieStatus = "good"
	StatusNear  CalorieStatus = "near"
	StatusOver  CalorieStatus = "over"
)

// BMI returns body mass index rounded to one decimal, or false when either
// metric is missing.
func BMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10, true
}

// BMICategory names the band a BMI value falls in.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return "Unknown"
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// RecommendedCalories estimates daily calorie needs with the Harris-Benedict
// equation. Unknown activity levels count as sedentary.
func RecommendedCalories(weightKg, heightCm float64, age int, gender Gender, level ActivityLevel) int {
	var bmr float64
	if gender == GenderMale {
		bmr = 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*float64(age)
	} else {
		bmr = 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*float64(age)
	}
	mult, ok := activityMultipliers[level]
	if !ok {
		mult = activityMultipliers[ActivitySedentary]
	}
	return int(math.Round(bmr * mult))
}

// StatusFor compares consumed calories with the goal.
func StatusFor(consumed, goal int) CalorieStatus {
	if goal <= 0 {
		return StatusOver
	}
	pct := float64(consumed) / float64(goal) * 100
	switch {
	case pct < 80:
		return StatusUnder
	case pct <= 100:
		return StatusGood
	case pct <= 110:
		return StatusNear
	default:
		return StatusOver
	}
}

// Remaining returns the calories left before the goal, never negative.
func Remaining(consumed, goal int) int {
	return max(0, goal-consumed)
}

// Percent returns consumed as a rounded percentage of goal.
func Percent(consumed, goal int) int {
	if goal == 0 {
		return 0
	}
	return int(math.Round(float64(consumed) / float64(goal) * 100))
}
