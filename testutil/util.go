// Package testutil gathers the fixtures shared by tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/user"
)

// NewValidator returns a validator with every custom validation and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isActive bool,
	joinedAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := core.Now()
	if len(joinedAt) > 0 {
		tstamp = joinedAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		IsActive:  isActive,
		JoinedAt:  tstamp,
		UpdatedAt: tstamp,
	}
	if pwd == "" {
		pwd = "Str0ng!Pass"
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// SetProgress sets the progress of usr on the course or track key.
func SetProgress(t *testing.T, repo user.Repository, usr user.User, key string, percent int) {
	t.Helper()
	if err := repo.SetProgress(context.Background(), usr.ID, key, percent); err != nil {
		t.Fatalf("SetProgress() failed: %v", err)
	}
}
