package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
)

var errNothingToUpdate = errors.New("nothing to update")

// Profile prompts for the optional profile fields and sends the ones given.
func (a *App) Profile(ctx context.Context) error {
	var f profileForm
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Height (empty to keep)", &f.Height},
		{"Weight (empty to keep)", &f.Weight},
		{"Age (empty to keep)", &f.Age},
		{"Gender (empty to keep)", &f.Gender},
	}
	for _, fl := range fields {
		v, err := getSimpleText(a.reader, fl.prompt, a.out)
		if err != nil {
			return err
		}
		*fl.dst = v
	}

	if err := validate.Struct(f); err != nil {
		return formError(err)
	}

	patch := models.UserPatch{
		Height: optional(f.Height),
		Weight: optional(f.Weight),
		Age:    optional(f.Age),
		Gender: optional(f.Gender),
	}
	if patch.IsEmpty() {
		return errNothingToUpdate
	}

	if err := a.store.UpdateProfile(ctx, patch); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}
