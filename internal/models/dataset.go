// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package models

import "fmt"

// Table identifies one of the nine tracked tables.
type Table int

// Tables in their fixed read/clear/insert order.
const (
	TableWorkouts Table = iota
	TableExercises
	TableSets
	TableSetHistory
	TableCardio
	TableProgressPhotos
	TableWorkoutHistory
	TablePhotos
	TableReports
)

type tableInfo struct {
	key    string
	sql    string
}

var tableInfos = [...]tableInfo{
	TableWorkouts:       {key: "treinos", sql: "workouts"},
	TableExercises:      {key: "exercicios", sql: "exercises"},
	TableSets:           {key: "series", sql: "sets"},
	TableSetHistory:     {key: "historico", sql: "set_history"},
	TableCardio:         {key: "cardio", sql: "cardio_sessions"},
	TableProgressPhotos: {key: "fotosProgresso", sql: "progress_photos"},
	TableWorkoutHistory: {key: "historicoTreinos", sql: "workout_history"},
	TablePhotos:         {key: "fotos", sql: "photos"},
	TableReports:        {key: "relatorios", sql: "weekly_reports"},
}

// AllTables returns every table in the fixed order.
func AllTables() []Table {
	out := make([]Table, len(tableInfos))
	for i := range tableInfos {
		out[i] = Table(i)
	}
	return out
}

// TableKeys returns the snapshot keys of every table in the fixed order.
func TableKeys() []string {
	keys := make([]string, len(tableInfos))
	for i, info := range tableInfos {
		keys[i] = info.key
	}
	return keys
}

// Key returns the snapshot JSON key of the table.
func (t Table) Key() string {
	if !t.valid() {
		return fmt.Sprintf("table(%d)", int(t))
	}
	return tableInfos[t].key
}

// SQLName returns the database table name.
func (t Table) SQLName() string {
	if !t.valid() {
		return ""
	}
	return tableInfos[t].sql
}

func (t Table) String() string { return t.Key() }

func (t Table) valid() bool {
	return t >= 0 && int(t) < len(tableInfos)
}

// Dataset holds the rows of every table. The JSON keys are the snapshot
// table keys.
type Dataset struct {
	Workouts       []Workout        `json:"treinos"`
	Exercises      []Exercise       `json:"exercicios"`
	Sets           []Set            `json:"series"`
	SetHistory     []SetHistory     `json:"historico"`
	Cardio         []CardioSession  `json:"cardio"`
	ProgressPhotos []ProgressPhoto  `json:"fotosProgresso"`
	WorkoutHistory []WorkoutHistory `json:"historicoTreinos"`
	Photos         []Photo          `json:"fotos"`
	Reports        []WeeklyReport   `json:"relatorios"`
}

// Normalize replaces nil slices with empty ones so they encode as [].
func (d *Dataset) Normalize() {
	if d.Workouts == nil {
		d.Workouts = []Workout{}
	}
	if d.Exercises == nil {
		d.Exercises = []Exercise{}
	}
	if d.Sets == nil {
		d.Sets = []Set{}
	}
	if d.SetHistory == nil {
		d.SetHistory = []SetHistory{}
	}
	if d.Cardio == nil {
		d.Cardio = []CardioSession{}
	}
	if d.ProgressPhotos == nil {
		d.ProgressPhotos = []ProgressPhoto{}
	}
	if d.WorkoutHistory == nil {
		d.WorkoutHistory = []WorkoutHistory{}
	}
	if d.Photos == nil {
		d.Photos = []Photo{}
	}
	if d.Reports == nil {
		d.Reports = []WeeklyReport{}
	}
	for i := range d.Reports {
		if d.Reports[i].Photos == nil {
			d.Reports[i].Photos = StringList{}
		}
	}
}

// AssignMissingIDs gives every row with an empty id a fresh NewID and
// returns how many rows it touched.
func (d *Dataset) AssignMissingIDs() int {
	n := 0
	assign := func(id *string) {
		if *id == "" {
			*id = NewID()
			n++
		}
	}
	for i := range d.Workouts {
		assign(&d.Workouts[i].ID)
	}
	for i := range d.Exercises {
		assign(&d.Exercises[i].ID)
	}
	for i := range d.Sets {
		assign(&d.Sets[i].ID)
	}
	for i := range d.SetHistory {
		assign(&d.SetHistory[i].ID)
	}
	for i := range d.Cardio {
		assign(&d.Cardio[i].ID)
	}
	for i := range d.ProgressPhotos {
		assign(&d.ProgressPhotos[i].ID)
	}
	for i := range d.WorkoutHistory {
		assign(&d.WorkoutHistory[i].ID)
	}
	for i := range d.Photos {
		assign(&d.Photos[i].ID)
	}
	for i := range d.Reports {
		assign(&d.Reports[i].ID)
	}
	return n
}

// Len returns the row count of one table.
func (d *Dataset) Len(t Table) int {
	switch t {
	case TableWorkouts:
		return len(d.Workouts)
	case TableExercises:
		return len(d.Exercises)
	case TableSets:
		return len(d.Sets)
	case TableSetHistory:
		return len(d.SetHistory)
	case TableCardio:
		return len(d.Cardio)
	case TableProgressPhotos:
		return len(d.ProgressPhotos)
	case TableWorkoutHistory:
		return len(d.WorkoutHistory)
	case TablePhotos:
		return len(d.Photos)
	case TableReports:
		return len(d.Reports)
	default:
		return 0
	}
}

// TotalRows returns the row count across all tables.
func (d *Dataset) TotalRows() int {
	total := 0
	for _, t := range AllTables() {
		total += d.Len(t)
	}
	return total
}

// ImageCounts returns how many photo images and progress-photo images the
// dataset holds.
func (d *Dataset) ImageCounts() (photos, progress int) {
	for i := range d.Photos {
		if d.Photos[i].Image != nil {
			photos++
		}
	}
	for i := range d.ProgressPhotos {
		progress += d.ProgressPhotos[i].ImageCount()
	}
	return photos, progress
}

// StripImages nulls every image field and empties every report photo list.
// Rows themselves are kept.
func (d *Dataset) StripImages() {
	for i := range d.ProgressPhotos {
		d.ProgressPhotos[i].Front = nil
		d.ProgressPhotos[i].Side = nil
		d.ProgressPhotos[i].Back = nil
	}
	for i := range d.Photos {
		d.Photos[i].Image = nil
	}
	for i := range d.Reports {
		d.Reports[i].Photos = StringList{}
	}
}

// Clone returns a copy whose slices can be modified without touching d.
// Image strings are immutable and shared.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Workouts:       append([]Workout(nil), d.Workouts...),
		Exercises:      append([]Exercise(nil), d.Exercises...),
		Sets:           append([]Set(nil), d.Sets...),
		SetHistory:     append([]SetHistory(nil), d.SetHistory...),
		Cardio:         append([]CardioSession(nil), d.Cardio...),
		ProgressPhotos: append([]ProgressPhoto(nil), d.ProgressPhotos...),
		WorkoutHistory: append([]WorkoutHistory(nil), d.WorkoutHistory...),
		Photos:         append([]Photo(nil), d.Photos...),
		Reports:        append([]WeeklyReport(nil), d.Reports...),
	}
	for i := range out.Reports {
		out.Reports[i].Photos = append(StringList(nil), d.Reports[i].Photos...)
	}
	out.Normalize()
	return out
}
