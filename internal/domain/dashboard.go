package domain

type ExerciseEntry struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration"`
}

type BodyCompositionSnapshot struct {
	Fat    *float64 `json:"fat"`
	Muscle *float64 `json:"muscle"`
	Water  *float64 `json:"water"`
}

// Dashboard is the summary of a user's latest values and today's totals.
type Dashboard struct {
	Weight                *float64                `json:"weight"`
	Height                *float64                `json:"height"`
	BodyComposition       BodyCompositionSnapshot `json:"body_composition"`
	BodyFatPercentage     *float64                `json:"body_fat_percentage"`
	WaterConsumptionToday int64                   `json:"water_consumption_today"`
	DailySteps            int64                   `json:"daily_steps"`
	ExercisesToday        []ExerciseEntry         `json:"exercises_today"`
}
