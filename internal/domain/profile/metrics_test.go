package profile_test

import (
	"testing"

	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBMI(t *testing.T) {
	bmi, ok := profile.BMI(70, 175)
	require.True(t, ok)
	assert.Equal(t, 22.9, bmi)
	assert.Equal(t, "Normal", profile.BMICategory(bmi))

	_, ok = profile.BMI(0, 175)
	assert.False(t, ok)

	assert.Equal(t, "Underweight", profile.BMICategory(18.4))
	assert.Equal(t, "Overweight", profile.BMICategory(25))
	assert.Equal(t, "Obese", profile.BMICategory(30))
}

func TestRecommendedCalories(t *testing.T) {
	// 88.362 + 13.397*80 + 4.799*180 - 5.677*30 = 1853.632; *1.55 = 2873.1
	assert.Equal(t, 2873, profile.RecommendedCalories(80, 180, 30, profile.GenderMale, profile.ActivityModerate))
	// 447.593 + 9.247*60 + 3.098*165 - 4.330*25 = 1405.333; *1.2 = 1686.4
	assert.Equal(t, 1686, profile.RecommendedCalories(60, 165, 25, profile.GenderFemale, "unknown"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, profile.StatusUnder, profile.StatusFor(1000, 2000))
	assert.Equal(t, profile.StatusGood, profile.StatusFor(1600, 2000))
	assert.Equal(t, profile.StatusGood, profile.StatusFor(2000, 2000))
	assert.Equal(t, profile.StatusNear, profile.StatusFor(2200, 2000))
	assert.Equal(t, profile.StatusOver, profile.StatusFor(2201, 2000))
}

func TestProgressFor(t *testing.T) {
	w, h := 70.0, 175.0
	p := profile.ProgressFor(profile.Profile{CalorieGoal: 2000, WeightKg: &w, HeightCm: &h}, 2500)
	assert.Equal(t, 0, p.Remaining)
	assert.Equal(t, 125, p.Percent)
	assert.Equal(t, profile.StatusOver, p.Status)
	require.NotNil(t, p.BMI)
	assert.Equal(t, "Normal", p.BMICategory)

	_, err := profile.Recommended(profile.Profile{}, profile.GenderMale, profile.ActivityLight)
	assert.ErrorIs(t, err, profile.ErrMissingMetrics)
}
