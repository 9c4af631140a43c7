package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials(withName bool) (credentialsForm, error) {
	var f credentialsForm
	var err error

	if withName {
		if f.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
			return f, err
		}
	}
	if f.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return f, err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return f, err
	}
	f.Password = string(password)
	clear(password)

	if err := validate.Struct(f); err != nil {
		return f, formError(err)
	}
	return f, nil
}

// Register prompts for name, email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	f, err := a.readCredentials(true)
	if err != nil {
		return err
	}
	if err := a.store.Register(ctx, f.Name, f.Email, f.Password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Welcome,", a.getStatus())
	return nil
}

// Login prompts for email and password and signs in.
func (a *App) Login(ctx context.Context) error {
	f, err := a.readCredentials(false)
	if err != nil {
		return err
	}
	if err := a.store.Login(ctx, f.Email, f.Password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged in as", a.getStatus())
	return nil
}

// Logout ends the session and clears today's data.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
