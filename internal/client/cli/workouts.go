package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
)

// ListWorkouts prints the workout log, newest first.
func (a *App) ListWorkouts(ctx context.Context) error {
	list := a.store.Snapshot().Workouts
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No workouts yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tMIN\tINTENSITY\tDATE\tNOTES\t")
	for _, w := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			w.ID, w.Type, w.Duration, w.Intensity, w.Date.Local().Format(time.DateTime), w.Notes)
	}
	return tw.Flush()
}

// AddWorkout prompts for a new workout and records it.
func (a *App) AddWorkout(ctx context.Context) error {
	f, err := a.readWorkoutForm(false)
	if err != nil {
		return err
	}
	if err := validate.Struct(f); err != nil {
		return formError(err)
	}

	w := a.store.AddWorkout(models.WorkoutDraft{
		Type:      f.Type,
		Duration:  f.Duration,
		Intensity: models.Intensity(f.Intensity),
		Notes:     f.Notes,
	})
	fmt.Fprintln(a.out, "Added workout", w.ID)
	return nil
}

// EditWorkout prompts for the fields to change on workout id.
func (a *App) EditWorkout(ctx context.Context, id string) error {
	cur, ok := a.findWorkout(id)
	if !ok {
		return fmt.Errorf("workout %s not found", id)
	}

	f, err := a.readWorkoutForm(true)
	if err != nil {
		return err
	}

	// validate the merged result so blank answers keep current values and
	// clearing a required field is rejected
	merged := workoutForm{
		Type:      orDefault(f.Type, cur.Type),
		Duration:  orDefault(f.Duration, cur.Duration),
		Intensity: orDefault(f.Intensity, string(cur.Intensity)),
		Notes:     orDefault(f.Notes, cur.Notes),
	}
	if err := validate.Struct(merged); err != nil {
		return formError(err)
	}

	patch := models.WorkoutPatch{
		Type:     editValue(f.Type),
		Duration: editValue(f.Duration),
		Notes:    editValue(f.Notes),
	}
	if v := editValue(f.Intensity); v != nil {
		in := models.Intensity(*v)
		patch.Intensity = &in
	}

	if _, err := a.store.UpdateWorkout(id, patch); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Updated workout", id)
	return nil
}

// DeleteWorkout removes workout id.
func (a *App) DeleteWorkout(ctx context.Context, id string) error {
	if err := a.store.DeleteWorkout(id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	fmt.Fprintln(a.out, "Deleted workout", id)
	return nil
}

func (a *App) readWorkoutForm(editing bool) (workoutForm, error) {
	suffix := ""
	if editing {
		suffix = " (empty to keep, " + clearValue + " to clear)"
	}

	var f workoutForm
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Type (e.g. Running)" + suffix, &f.Type},
		{"Duration in minutes" + suffix, &f.Duration},
		{"Intensity: low, medium or high" + suffix, &f.Intensity},
		{"Notes" + suffix, &f.Notes},
	}
	for _, fl := range fields {
		v, err := getSimpleText(a.reader, fl.prompt, a.out)
		if err != nil {
			return f, err
		}
		*fl.dst = v
	}
	return f, nil
}

func (a *App) findWorkout(id string) (models.Workout, bool) {
	for _, w := range a.store.Snapshot().Workouts {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workout{}, false
}

// clearValue typed at an edit prompt empties the field.
const clearValue = "-"

func orDefault(v, def string) string {
	switch v {
	case "":
		return def
	case clearValue:
		return ""
	}
	return v
}

// editValue is optional for edit prompts: empty keeps the field, clearValue
// sets it to "".
func editValue(v string) *string {
	if v == clearValue {
		empty := ""
		return &empty
	}
	return optional(v)
}
