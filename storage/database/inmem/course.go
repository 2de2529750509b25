package inmemdb

import (
	"context"
	"sort"

	"github.com/startsmart/property/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) QueryCompletions(_ context.Context, userID, courseID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	done := repo.db.completions[userID][courseID]
	ids := make([]string, 0, len(done))
	for id := range done {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *courseRepository) SetCompletion(_ context.Context, userID, courseID, lessonID string, completed bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	byCourse, ok := repo.db.completions[userID]
	if !ok {
		byCourse = make(map[string]map[string]bool)
		repo.db.completions[userID] = byCourse
	}
	done, ok := byCourse[courseID]
	if !ok {
		done = make(map[string]bool)
		byCourse[courseID] = done
	}
	if completed {
		done[lessonID] = true
	} else {
		delete(done, lessonID)
	}
	return nil
}

func (repo *courseRepository) GetNote(_ context.Context, userID, lessonID string) (course.Note, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if note, ok := repo.db.notes[userID][lessonID]; ok {
		return note, nil
	}
	return course.Note{}, course.ErrNoteNotFound
}

func (repo *courseRepository) SaveNote(_ context.Context, note course.Note) (course.Note, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	notes, ok := repo.db.notes[note.UserID]
	if !ok {
		notes = make(map[string]course.Note)
		repo.db.notes[note.UserID] = notes
	}
	notes[note.LessonID] = note
	return note, nil
}
