package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/startsmart/property/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email && !isExcluded(*usr, excludedUsers) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = uuid.New().String()
	usr.Progress = nil
	repo.db.users[usr.ID] = &usr
	return repo.withProgress(usr), nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.ID != "" {
		if usr, ok := repo.db.users[filter.ID]; ok {
			return repo.withProgress(*usr), nil
		}
		return user.User{}, user.ErrNotFound
	}
	if filter.Email != "" {
		for _, usr := range repo.db.users {
			if usr.Email == filter.Email {
				return repo.withProgress(*usr), nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	origUsr, ok := repo.db.users[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	origUsr.Name = usr.Name
	origUsr.Email = usr.Email
	origUsr.IsActive = usr.IsActive
	origUsr.UpdatedAt = usr.UpdatedAt
	origUsr.LastLogin = usr.LastLogin
	return repo.withProgress(*origUsr), nil
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.users, id)
		delete(repo.db.progress, id)
		delete(repo.db.completions, id)
		delete(repo.db.notes, id)
		for aid, a := range repo.db.analyses {
			if a.UserID == id {
				delete(repo.db.analyses, aid)
			}
		}
	}
	return nil
}

func (repo *userRepository) GetProgress(_ context.Context, userID string) (map[string]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.progressOf(userID), nil
}

func (repo *userRepository) SetProgress(_ context.Context, userID, key string, percent int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[userID]; !ok {
		return user.ErrNotFound
	}
	prog, ok := repo.db.progress[userID]
	if !ok {
		prog = make(map[string]int)
		repo.db.progress[userID] = prog
	}
	prog[key] = percent
	return nil
}

// progressOf returns a copy of the progress of userID. The caller holds the lock.
func (repo *userRepository) progressOf(userID string) map[string]int {
	prog := make(map[string]int, len(repo.db.progress[userID]))
	for k, v := range repo.db.progress[userID] {
		prog[k] = v
	}
	return prog
}

func (repo *userRepository) withProgress(usr user.User) user.User {
	usr.Progress = repo.progressOf(usr.ID)
	return usr
}

func isExcluded(usr user.User, excludedUsers []user.User) bool {
	for _, u := range excludedUsers {
		if u.ID == usr.ID {
			return true
		}
	}
	return false
}
