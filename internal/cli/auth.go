package cli

import (
	"context"

	"github.com/dmitrijs2005/afactura/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.warn("Already logged in as %s.", a.session.User)
		return nil
	}

	username, err := a.askDefault("Username", a.config.DefaultUser)
	if err != nil {
		return err
	}

	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.session = sess
	a.success("Welcome, %s. Company: %s", sess.User, sess.Profile.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	a.authService.Logout(ctx, a.session)
	a.session = nil
	a.success("Logged out.")
	return nil
}
