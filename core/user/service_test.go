package user_test

import (
	"context"
	"os"
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/user"
	emailsvc "github.com/startsmart/property/services/email"
	logsvc "github.com/startsmart/property/services/logger"
	inmemdb "github.com/startsmart/property/storage/database/inmem"
	"github.com/startsmart/property/testutil"
)

var (
	conf   = core.NewTestConfig()
	logger = logsvc.NewDiscardLogger(conf)

	resetLinkRegex = regexp.MustCompile(`/password-reset/([^/\s]+)/([^/\s]+)`)
)

func TestMain(m *testing.M) {
	core.ParseEmailTemplates(logger, true /* strict */)
	user.LoadCommonPasswords(logger)
	os.Exit(m.Run())
}

func setup(t *testing.T) (user.Service, user.Repository) {
	t.Helper()
	emailsvc.ResetSentMessages()
	repo := inmemdb.NewUserRepository(inmemdb.Open())
	svc := user.NewService(repo, emailsvc.NewConsoleServiceMock(conf, logger), conf)
	return svc, repo
}

func TestNewUser_Validate(t *testing.T) {
	svc, repo := setup(t)
	validate, _ := testutil.NewValidator()
	testutil.CreateUser(t, repo, "Taken", "taken@startsmart.ae", "", true)

	tests := []struct {
		name      string
		nu        user.NewUser
		wantField string
	}{
		{name: "valid", nu: user.NewUser{Email: " New@StartSmart.ae ", Password: "Dub@i2026!", PasswordConfirm: "Dub@i2026!"}},
		{name: "email required", nu: user.NewUser{Password: "Dub@i2026!", PasswordConfirm: "Dub@i2026!"}, wantField: "email"},
		{name: "invalid email", nu: user.NewUser{Email: "nope", Password: "Dub@i2026!", PasswordConfirm: "Dub@i2026!"}, wantField: "email"},
		{name: "email taken", nu: user.NewUser{Email: "TAKEN@startsmart.ae", Password: "Dub@i2026!", PasswordConfirm: "Dub@i2026!"}, wantField: "email"},
		{name: "password too short", nu: user.NewUser{Email: "a@b.ae", Password: "Ab1!", PasswordConfirm: "Ab1!"}, wantField: "password"},
		{name: "password too common", nu: user.NewUser{Email: "a@b.ae", Password: "P@ssw0rd", PasswordConfirm: "P@ssw0rd"}, wantField: "password"},
		{name: "password confirm mismatch", nu: user.NewUser{Email: "a@b.ae", Password: "Dub@i2026!", PasswordConfirm: "Dub@i2027!"}, wantField: "password_confirm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := tt.nu
			err := nu.Validate(validate, svc)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "new@startsmart.ae", nu.Email)
				assert.Equal(t, "new", nu.Name, "name defaults to the email local part")
				return
			}
			require.Error(t, err)
			assert.Contains(t, fieldsOf(err), tt.wantField)
		})
	}
}

func TestService_Signup(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr, err := svc.Signup(ctx, user.NewUser{Name: " Aisha ", Email: "Aisha@StartSmart.ae", Password: "Dub@i2026!"})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "Aisha", usr.Name)
	assert.Equal(t, "aisha@startsmart.ae", usr.Email)
	assert.True(t, usr.IsActive)
	assert.Equal(t, map[string]int{"c2": 45, "c3": 12}, usr.Progress)
	assert.NoError(t, usr.CheckPassword("Dub@i2026!"))

	stored, err := repo.GetUser(ctx, user.GetFilter{Email: "aisha@startsmart.ae"})
	require.NoError(t, err)
	assert.Equal(t, usr.Progress, stored.Progress)

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, usr.Email, msg.To[0].Address)
	assert.Contains(t, msg.TextContent, "Hi Aisha")
	assert.Contains(t, msg.HTMLContent, "Hi Aisha")
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	active := testutil.CreateUser(t, repo, "Omar", "omar@startsmart.ae", "Dub@i2026!", true)
	testutil.CreateUser(t, repo, "Gone", "gone@startsmart.ae", "Dub@i2026!", false)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "unknown email", email: "who@startsmart.ae", pwd: "Dub@i2026!", wantErr: user.ErrAuthenticationFailed},
		{name: "wrong password", email: active.Email, pwd: "Dub@i2025!", wantErr: user.ErrAuthenticationFailed},
		{name: "inactive", email: "gone@startsmart.ae", pwd: "Dub@i2026!", wantErr: user.ErrAccountDeactivated},
		{name: "case insensitive email", email: " OMAR@startsmart.ae", pwd: "Dub@i2026!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, active.ID, usr.ID)
			assert.False(t, usr.LastLogin.IsZero())
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	validate, _ := testutil.NewValidator()
	usr := testutil.CreateUser(t, repo, "Omar", "omar@startsmart.ae", "Dub@i2026!", true)
	other := testutil.CreateUser(t, repo, "Lina", "lina@startsmart.ae", "", true)

	uu := user.UpdateUser{Email: other.Email}
	err := uu.Validate(usr, validate, svc)
	assert.Contains(t, fieldsOf(err), "email")

	uu = user.UpdateUser{Email: usr.Email}
	assert.NoError(t, uu.Validate(usr, validate, svc), "own email is not a conflict")

	uu = user.UpdateUser{Name: "Omar K", Password: "N3w!Secret", PasswordConfirm: "N3w!Secret"}
	require.NoError(t, uu.Validate(usr, validate, svc))
	updated, err := svc.Update(ctx, usr.ID, uu)
	require.NoError(t, err)
	assert.Equal(t, "Omar K", updated.Name)
	assert.Equal(t, usr.Email, updated.Email)
	assert.NoError(t, updated.CheckPassword("N3w!Secret"))

	_, err = svc.Update(ctx, "missing", uu)
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_UpdateProgress(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, repo, "Omar", "omar@startsmart.ae", "", true)

	tests := []struct {
		name       string
		key        string
		percent    int
		wantFields []string
	}{
		{name: "course", key: "c1", percent: 30},
		{name: "track", key: "t1", percent: 100},
		{name: "zero", key: "c3", percent: 0},
		{name: "unknown course", key: "c9", percent: 10, wantFields: []string{"course_id"}},
		{name: "negative", key: "c1", percent: -1, wantFields: []string{"progress"}},
		{name: "over 100", key: "c1", percent: 101, wantFields: []string{"progress"}},
		{name: "both", key: "x", percent: 200, wantFields: []string{"course_id", "progress"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateProgress(ctx, usr.ID, tt.key, tt.percent)
			if tt.wantFields != nil {
				require.True(t, core.IsValidationError(err))
				assert.ElementsMatch(t, tt.wantFields, fieldsOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.percent, updated.Progress[tt.key])
		})
	}
}

func TestService_PasswordReset(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, repo, "Omar", "omar@startsmart.ae", "Dub@i2026!", true)
	testutil.CreateUser(t, repo, "Gone", "gone@startsmart.ae", "", false)

	assert.Equal(t, user.ErrNotFound, svc.RequestPasswordReset(ctx, "who@startsmart.ae"))
	assert.Equal(t, user.ErrNotFound, svc.RequestPasswordReset(ctx, "gone@startsmart.ae"))
	assert.Empty(t, emailsvc.SentMessages)

	require.NoError(t, svc.RequestPasswordReset(ctx, "Omar@startsmart.ae"))
	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	match := resetLinkRegex.FindStringSubmatch(msg.TextContent)
	require.Len(t, match, 3, "reset link in text content")
	assert.Regexp(t, resetLinkRegex, msg.HTMLContent)
	uid, token := match[1], match[2]
	assert.Equal(t, user.EncodeUID(usr), uid)

	tests := []struct {
		name    string
		data    user.ResetUserPassword
		wantErr bool
	}{
		{name: "invalid uid", data: user.ResetUserPassword{UID: "!!", Token: token, Password: "N3w!Secret"}, wantErr: true},
		{name: "unknown user", data: user.ResetUserPassword{UID: "bG9s", Token: token, Password: "N3w!Secret"}, wantErr: true},
		{name: "invalid token", data: user.ResetUserPassword{UID: uid, Token: "MTIz-sig", Password: "N3w!Secret"}, wantErr: true},
		{name: "valid", data: user.ResetUserPassword{UID: uid, Token: token, Password: "N3w!Secret"}},
		{name: "token used", data: user.ResetUserPassword{UID: uid, Token: token, Password: "An0ther!Pwd"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ResetPassword(ctx, tt.data)
			if tt.wantErr {
				assert.True(t, core.IsValidationError(err))
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := svc.Authenticate(ctx, usr.Email, "N3w!Secret")
	assert.NoError(t, err)
}

// fieldsOf lists the invalid fields of a validation error.
func fieldsOf(err error) []string {
	var flds []string
	switch e := errors.Cause(err).(type) {
	case *core.ValidationError:
		for _, f := range e.Fields {
			flds = append(flds, f.Field)
		}
	case validator.ValidationErrors:
		for _, fe := range e {
			flds = append(flds, fe.Field())
		}
	}
	return flds
}
