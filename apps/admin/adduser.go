package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/user"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(name, email, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	switch errors.Cause(err) {
	case nil:
		if name != "" {
			usr.Name = name
		}
		usr.IsActive = true
		usr.UpdatedAt = core.Now()
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
		return err
	case user.ErrNotFound:
	default:
		return err
	}

	if name == "" {
		name = user.DefaultName(email)
	}
	now := core.Now()
	usr = user.User{
		Name:      name,
		Email:     email,
		IsActive:  true,
		JoinedAt:  now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if usr, err = cli.usrRepo.CreateUser(ctx, usr); err != nil {
		return err
	}
	for key, pct := range user.SignupProgress {
		if err := cli.usrRepo.SetProgress(ctx, usr.ID, key, pct); err != nil {
			return err
		}
	}
	return nil
}
