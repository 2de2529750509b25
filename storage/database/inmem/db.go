package inmemdb

import (
	"sync"

	"github.com/startsmart/property/core/course"
	"github.com/startsmart/property/core/deal"
	"github.com/startsmart/property/core/user"
)

type (
	// DB is a mutex-guarded set of tables, used by tests and by development runs without postgres.
	DB struct {
		mutex sync.RWMutex

		users       map[string]*user.User
		progress    map[string]map[string]int             // {userID: {course or track ID: percent}}
		completions map[string]map[string]map[string]bool // {userID: {courseID: {lessonID: true}}}
		notes       map[string]map[string]course.Note     // {userID: {lessonID: note}}
		analyses    map[string]*deal.Analysis
	}
)

func Open() *DB {
	db := new(DB)
	db.reset()
	return db
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.reset()
}

func (db *DB) reset() {
	db.users = make(map[string]*user.User)
	db.progress = make(map[string]map[string]int)
	db.completions = make(map[string]map[string]map[string]bool)
	db.notes = make(map[string]map[string]course.Note)
	db.analyses = make(map[string]*deal.Analysis)
}
