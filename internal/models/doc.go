// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
Package models defines the rows stored in the Liftlog local database.

Nine tables are tracked, always handled in the same fixed order:

 1. Workout         (treinos)          named training plans
 2. Exercise        (exercicios)       exercises belonging to a workout
 3. Set             (series)           planned/logged sets of an exercise
 4. SetHistory      (historico)        per-set history used for progress charts
 5. CardioSession   (cardio)           cardio activities
 6. ProgressPhoto   (fotosProgresso)   body-composition photos (front/side/back)
 7. WorkoutHistory  (historicoTreinos) completed workout sessions
 8. Photo           (fotos)            standalone photo records
 9. WeeklyReport    (relatorios)       generated weekly summaries with photos

The names in parentheses are the JSON keys used by backup snapshots. They are
part of the stored format and must not change.

Image fields hold base64 text, either raw or as a data URL. Timestamps are
stored as fixed-width UTC text so that both database drivers sort and compare
them the same way.
*/
package models
