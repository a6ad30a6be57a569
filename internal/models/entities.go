// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package models

// Workout is a named training plan.
type Workout struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	DayOfWeek   int    `json:"dayOfWeek" db:"day_of_week"`
	CreatedAt   Time   `json:"createdAt" db:"created_at"`
}

// Exercise belongs to a workout and carries its targets.
type Exercise struct {
	ID          string `json:"id" db:"id"`
	WorkoutID   string `json:"workoutId" db:"workout_id"`
	Name        string `json:"name" db:"name"`
	MuscleGroup string `json:"muscleGroup" db:"muscle_group"`
	TargetSets  int    `json:"targetSets" db:"target_sets"`
	TargetReps  int    `json:"targetReps" db:"target_reps"`
	RestSeconds int    `json:"restSeconds" db:"rest_seconds"`
	Position    int    `json:"position" db:"sort_order"`
}

// Set is one logged set of an exercise.
type Set struct {
	ID         string  `json:"id" db:"id"`
	ExerciseID string  `json:"exerciseId" db:"exercise_id"`
	Number     int     `json:"number" db:"number"`
	Reps       int     `json:"reps" db:"reps"`
	WeightKg   float64 `json:"weightKg" db:"weight_kg"`
	Completed  bool    `json:"completed" db:"completed"`
	Date       Time    `json:"date" db:"date"`
}

// SetHistory is a historical set record used for progress tracking.
type SetHistory struct {
	ID         string  `json:"id" db:"id"`
	ExerciseID string  `json:"exerciseId" db:"exercise_id"`
	SetNumber  int     `json:"setNumber" db:"set_number"`
	Reps       int     `json:"reps" db:"reps"`
	WeightKg   float64 `json:"weightKg" db:"weight_kg"`
	Date       Time    `json:"date" db:"date"`
}

// CardioSession is a single cardio activity.
type CardioSession struct {
	ID              string  `json:"id" db:"id"`
	Activity        string  `json:"activity" db:"activity"`
	DurationMinutes int     `json:"durationMinutes" db:"duration_minutes"`
	DistanceKm      float64 `json:"distanceKm" db:"distance_km"`
	Calories        int     `json:"calories" db:"calories"`
	Date            Time    `json:"date" db:"date"`
}

// ProgressPhoto holds up to three body-composition photos taken on one date.
// Each image is nullable base64 text.
type ProgressPhoto struct {
	ID       string   `json:"id" db:"id"`
	Date     Time     `json:"date" db:"date"`
	WeightKg *float64 `json:"weightKg" db:"weight_kg"`
	Front    *string  `json:"front" db:"front"`
	Side     *string  `json:"side" db:"side"`
	Back     *string  `json:"back" db:"back"`
	Notes    string   `json:"notes" db:"notes"`
}

// ImageCount returns how many of the three slots hold an image.
func (p *ProgressPhoto) ImageCount() int {
	n := 0
	for _, img := range []*string{p.Front, p.Side, p.Back} {
		if img != nil {
			n++
		}
	}
	return n
}

// WorkoutHistory records a completed workout session.
type WorkoutHistory struct {
	ID              string  `json:"id" db:"id"`
	WorkoutID       string  `json:"workoutId" db:"workout_id"`
	WorkoutName     string  `json:"workoutName" db:"workout_name"`
	DurationMinutes int     `json:"durationMinutes" db:"duration_minutes"`
	VolumeKg        float64 `json:"volumeKg" db:"volume_kg"`
	Date            Time    `json:"date" db:"date"`
}

// Photo is a standalone photo record.
type Photo struct {
	ID      string  `json:"id" db:"id"`
	Date    Time    `json:"date" db:"date"`
	Caption string  `json:"caption" db:"caption"`
	Image   *string `json:"image" db:"image"`
}

// WeeklyReport summarises one training week and may embed photos.
type WeeklyReport struct {
	ID            string     `json:"id" db:"id"`
	Date          Time       `json:"date" db:"date"`
	WeekStart     Time       `json:"weekStart" db:"week_start"`
	TotalWorkouts int        `json:"totalWorkouts" db:"total_workouts"`
	TotalVolumeKg float64    `json:"totalVolumeKg" db:"total_volume_kg"`
	Summary       string     `json:"summary" db:"summary"`
	Photos        StringList `json:"photos" db:"photos"`
}
