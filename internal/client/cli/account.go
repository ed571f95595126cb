package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/familyvault/internal/common"
)

// Prompt functions, replaced in tests.
var getSimpleText = readLine
var getSecret = readSecret

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) askSecret(prompt string) (string, error) {
	b, err := getSecret(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(b)
	return string(b), nil
}

// Signup creates an account in two steps: the server emails a code, then
// the code confirms the account and signs the owner in.
func (a *App) Signup(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	name, err := a.ask("Enter your name (optional)")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Choose a password")
	if err != nil {
		return err
	}

	if err := a.api.RequestSignup(ctx, email, password, name); err != nil {
		return err
	}
	a.println("A verification code was sent to", email)

	code, err := a.askSecret("Enter the code")
	if err != nil {
		return err
	}
	if err := a.api.ConfirmSignup(ctx, email, code); err != nil {
		return err
	}

	a.signedIn(ctx, email)
	a.println("Account created. Welcome!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Enter password")
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, password); err != nil {
		a.logger.Info(ctx, "login failed", "email", email, "error", err)
		return err
	}

	a.signedIn(ctx, email)
	a.println("Logged in.")
	return nil
}

func (a *App) signedIn(ctx context.Context, email string) {
	a.session.SignIn(email)
	if err := a.notify.Register(ctx, email); err != nil {
		a.logger.Warn(ctx, "notification registration failed", "error", err)
	}
}

// ResetPassword never reveals whether the email has an account.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	if err := a.api.RequestPasswordReset(ctx, email); err != nil {
		return err
	}
	a.println("If an account exists for", email+", a reset code was sent.")

	code, err := a.askSecret("Enter the code")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Choose a new password")
	if err != nil {
		return err
	}
	if err := a.api.ResetPassword(ctx, email, code, password); err != nil {
		return err
	}

	a.println("Password changed. Log in with the new password.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.notify.Unregister(ctx, a.session.Email()); err != nil {
		a.logger.Warn(ctx, "notification unregistration failed", "error", err)
	}
	a.session.SignOut()
	a.println("Logged out.")
	return nil
}
