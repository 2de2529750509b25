package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/user"
)

const userColumns = `"id", "name", "email", "password_hash", "is_active", "joined_at", "updated_at", "last_login"`

type (
	userRepository struct {
		db *sqlx.DB
	}

	userRow struct {
		ID           string    `db:"id"`
		Name         string    `db:"name"`
		Email        string    `db:"email"`
		PasswordHash []byte    `db:"password_hash"`
		IsActive     bool      `db:"is_active"`
		JoinedAt     time.Time `db:"joined_at"`
		UpdatedAt    time.Time `db:"updated_at"`
		LastLogin    null.Time `db:"last_login"`
	}

	progressRow struct {
		CourseID string `db:"course_id"`
		Percent  int    `db:"percent"`
	}
)

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		IsActive:     usr.IsActive,
		JoinedAt:     usr.JoinedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (row userRow) user() user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsActive:     row.IsActive,
		JoinedAt:     row.JoinedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		LastLogin:    row.LastLogin.Time.UTC(),
	}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	ids := make([]string, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		ids = append(ids, u.ID)
	}

	var exists bool
	q := `SELECT EXISTS(SELECT 1 FROM "users" WHERE "email" = $1 AND NOT ("id"::text = ANY($2)))`
	if err := repo.db.GetContext(ctx, &exists, q, email, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := toUserRow(usr)
	q := `INSERT INTO "users" (` + userColumns + `)
		VALUES (:id, :name, :email, :password_hash, :is_active, :joined_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr = row.user()
	usr.Progress = map[string]int{}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var row userRow
	var err error
	switch {
	case filter.ID != "":
		if _, perr := uuid.Parse(filter.ID); perr != nil {
			return user.User{}, user.ErrNotFound
		}
		err = repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM "users" WHERE "id" = $1`, filter.ID)
	case filter.Email != "":
		err = repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM "users" WHERE "email" = $1`, filter.Email)
	default:
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user")
	}

	usr := row.user()
	if usr.Progress, err = repo.GetProgress(ctx, usr.ID); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := toUserRow(usr)
	q := `UPDATE "users" SET
		"name" = :name, "email" = :email, "password_hash" = :password_hash, "is_active" = :is_active,
		"updated_at" = :updated_at, "last_login" = :last_login
		WHERE "id" = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM "users" WHERE "id"::text = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}

func (repo *userRepository) GetProgress(ctx context.Context, userID string) (map[string]int, error) {
	var rows []progressRow
	q := `SELECT "course_id", "percent" FROM "user_progress" WHERE "user_id" = $1`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "selecting progress")
	}
	prog := make(map[string]int, len(rows))
	for _, r := range rows {
		prog[r.CourseID] = r.Percent
	}
	return prog, nil
}

func (repo *userRepository) SetProgress(ctx context.Context, userID, key string, percent int) error {
	q := `INSERT INTO "user_progress" ("user_id", "course_id", "percent", "updated_at") VALUES ($1, $2, $3, $4)
		ON CONFLICT ("user_id", "course_id") DO UPDATE SET "percent" = EXCLUDED."percent", "updated_at" = EXCLUDED."updated_at"`
	if _, err := repo.db.ExecContext(ctx, q, userID, key, percent, core.Now()); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return user.ErrNotFound
		}
		return errors.Wrap(err, "upserting progress")
	}
	return nil
}
