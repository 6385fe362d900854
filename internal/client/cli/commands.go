package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/eatery/internal/server/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

// report prints the outcome of an account operation and turns a failed
// result into an error.
func report(out services.Output, success string) error {
	if !out.Ok {
		printlnFn("Error:", out.Error)
		return errors.New(out.Error)
	}
	printlnFn(success)
	return nil
}

func (a *App) readPassword() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer clear(pw)
	return string(pw), nil
}

// Register prompts for email, password and role and creates an account.
// A verification code is mailed by the server.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role (client, owner, delivery)", a.out)
	if err != nil {
		return err
	}
	if role == "" {
		role = "client"
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	out, err := a.api.CreateAccount(ctx, &services.CreateAccountInput{Email: email, Password: password, Role: role})
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	return report(out.Output, "Account created, check your mailbox for the verification code")
}

// Login prompts for credentials and keeps the session token on success.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	out, err := a.api.Login(ctx, &services.LoginInput{Email: email, Password: password})
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if err := report(out.Output, "Logged in"); err != nil {
		return err
	}

	a.token = out.Token
	a.email = strings.ToLower(strings.TrimSpace(email))
	return nil
}

// Verify redeems a verification code given inline or prompted for.
func (a *App) Verify(ctx context.Context, args []string) error {
	var code string
	if len(args) > 0 {
		code = args[0]
	} else {
		var err error
		code, err = getSimpleText(a.reader, "Enter verification code", a.out)
		if err != nil {
			return err
		}
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	out, err := a.api.VerifyEmail(ctx, &services.VerifyEmailInput{Code: code})
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	return report(out.Output, "Email verified")
}

// Me prints the profile of the logged-in user.
func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return errNotLoggedIn
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	out, err := a.api.Me(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if !out.Ok {
		return report(out.Output, "")
	}

	u := out.User
	printlnFn(fmt.Sprintf("id: %s\nemail: %s\nrole: %s\nverified: %t", u.ID, u.Email, u.Role, u.Verified))
	return nil
}

// ChangeEmail updates the account email. The new address has to be
// verified again.
func (a *App) ChangeEmail(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return errNotLoggedIn
	}
	email, err := getSimpleText(a.reader, "Enter new email", a.out)
	if err != nil {
		return err
	}
	return a.editProfile(ctx, &services.EditProfileInput{Email: &email}, "Email changed, check your mailbox for the verification code")
}

// ChangePassword updates the account password.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return errNotLoggedIn
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	return a.editProfile(ctx, &services.EditProfileInput{Password: &password}, "Password changed")
}

func (a *App) editProfile(ctx context.Context, in *services.EditProfileInput, success string) error {
	ctx, cancel := a.callContext(ctx)
	defer cancel()

	out, err := a.api.EditProfile(ctx, in)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if err := report(out.Output, success); err != nil {
		return err
	}
	if out.User != nil {
		a.email = out.User.Email
	}
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(context.Context) error {
	a.token = ""
	a.email = ""
	printlnFn("Logged out")
	return nil
}
