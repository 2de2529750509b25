package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/course"
)

type (
	courseRepository struct {
		db *sqlx.DB
	}

	noteRow struct {
		UserID    string    `db:"user_id"`
		LessonID  string    `db:"lesson_id"`
		Content   string    `db:"content"`
		UpdatedAt time.Time `db:"updated_at"`
	}
)

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) QueryCompletions(ctx context.Context, userID, courseID string) ([]string, error) {
	ids := make([]string, 0)
	q := `SELECT "lesson_id" FROM "lesson_completions" WHERE "user_id" = $1 AND "course_id" = $2 ORDER BY "lesson_id"`
	if err := repo.db.SelectContext(ctx, &ids, q, userID, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting completions")
	}
	return ids, nil
}

func (repo *courseRepository) SetCompletion(ctx context.Context, userID, courseID, lessonID string, completed bool) error {
	if !completed {
		q := `DELETE FROM "lesson_completions" WHERE "user_id" = $1 AND "course_id" = $2 AND "lesson_id" = $3`
		_, err := repo.db.ExecContext(ctx, q, userID, courseID, lessonID)
		return errors.Wrap(err, "deleting completion")
	}
	q := `INSERT INTO "lesson_completions" ("user_id", "course_id", "lesson_id", "completed_at") VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`
	_, err := repo.db.ExecContext(ctx, q, userID, courseID, lessonID, core.Now())
	return errors.Wrap(err, "inserting completion")
}

func (repo *courseRepository) GetNote(ctx context.Context, userID, lessonID string) (course.Note, error) {
	var row noteRow
	q := `SELECT "user_id", "lesson_id", "content", "updated_at" FROM "lesson_notes" WHERE "user_id" = $1 AND "lesson_id" = $2`
	if err := repo.db.GetContext(ctx, &row, q, userID, lessonID); err != nil {
		return course.Note{}, trapNoRowsErr(err, course.ErrNoteNotFound, "selecting note")
	}
	return course.Note{UserID: row.UserID, LessonID: row.LessonID, Content: row.Content, UpdatedAt: row.UpdatedAt.UTC()}, nil
}

func (repo *courseRepository) SaveNote(ctx context.Context, note course.Note) (course.Note, error) {
	row := noteRow{UserID: note.UserID, LessonID: note.LessonID, Content: note.Content, UpdatedAt: note.UpdatedAt.UTC()}
	q := `INSERT INTO "lesson_notes" ("user_id", "lesson_id", "content", "updated_at")
		VALUES (:user_id, :lesson_id, :content, :updated_at)
		ON CONFLICT ("user_id", "lesson_id") DO UPDATE SET "content" = EXCLUDED."content", "updated_at" = EXCLUDED."updated_at"`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return course.Note{}, errors.Wrap(err, "upserting note")
	}
	return note, nil
}
