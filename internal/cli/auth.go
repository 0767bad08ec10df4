package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/foxlist/internal/credentials"
	"github.com/dmitrijs2005/foxlist/internal/deadline"
	"github.com/dmitrijs2005/foxlist/internal/session"
)

// Register creates a new account and signs it in.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" || email == "" {
		fmt.Println("Name and email are required.")
		return nil
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.auth.SignUp(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, credentials.ErrDuplicateEmail) {
			fmt.Println("Email já cadastrado")
			return nil
		}
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Printf("Welcome, %s! You are signed in.\n", u.Name)
	return nil
}

// Login signs an existing account in.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			fmt.Println("Credenciais inválidas")
			return nil
		}
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Printf("Signed in as %s.\n", u.Email)
	return nil
}

// Logout signs the current user out.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

// Profile prints the current user's account summary.
func (a *App) Profile(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		fmt.Println("Not signed in.")
		return nil
	}

	fmt.Printf("Name:   %s\n", u.Name)
	fmt.Printf("Email:  %s\n", u.Email)
	if t, ok := deadline.ParseDate(u.CreatedAt); ok {
		fmt.Printf("Member since: %s\n", deadline.FormatDate(t))
	}

	count, err := a.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Tasks stored: %d\n", count)
	return nil
}

// UpdateProfile edits name/email, keeping current values on empty
// input.
func (a *App) UpdateProfile(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		fmt.Println("Not signed in.")
		return nil
	}

	name, err := GetOptionalText(a.reader, "Name", u.Name, os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetOptionalText(a.reader, "Email", u.Email, os.Stdout)
	if err != nil {
		return err
	}

	fields := credentials.UpdateFields{}
	if name != u.Name {
		fields.Name = &name
	}
	if email != u.Email {
		fields.Email = &email
	}
	if fields.Name == nil && fields.Email == nil {
		fmt.Println("Nothing to update.")
		return nil
	}

	updated, err := a.auth.UpdateProfile(ctx, fields)
	if err != nil {
		if errors.Is(err, credentials.ErrEmailInUse) {
			fmt.Println("Email já está em uso")
			return nil
		}
		fmt.Println("Update failed:", err)
		return err
	}

	fmt.Printf("Profile updated: %s <%s>\n", updated.Name, updated.Email)
	return nil
}

// DeleteAccount removes the account and all of its tasks after a
// typed confirmation.
func (a *App) DeleteAccount(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		fmt.Println("Not signed in.")
		return nil
	}

	answer, err := GetSimpleText(a.reader,
		fmt.Sprintf("Delete account %s and ALL its tasks? Type 'yes' to confirm", u.Email), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.auth.DeleteAccount(ctx); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Println("Account deletion failed:", err)
		return err
	}

	fmt.Println("Account deleted.")
	return nil
}
