package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/deal"
)

type dealRepository struct {
	db *DB
}

var _ deal.Repository = (*dealRepository)(nil) // interface compliance check

func NewDealRepository(db *DB) deal.Repository {
	return &dealRepository{db: db}
}

func (repo *dealRepository) CreateAnalysis(_ context.Context, a deal.Analysis) (deal.Analysis, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = uuid.New().String()
	repo.db.analyses[a.ID] = &a
	return a, nil
}

func (repo *dealRepository) QueryAnalyses(_ context.Context, userID string, ordering []core.DBOrdering) ([]deal.Analysis, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := make([]deal.Analysis, 0)
	for _, a := range repo.db.analyses {
		if a.UserID == userID {
			res = append(res, *a)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareAnalyses(res[i], res[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (repo *dealRepository) GetAnalysis(_ context.Context, userID, id string) (deal.Analysis, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.analyses[id]; ok && a.UserID == userID {
		return *a, nil
	}
	return deal.Analysis{}, deal.ErrNotFound
}

func (repo *dealRepository) DeleteAnalysis(_ context.Context, userID, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if a, ok := repo.db.analyses[id]; ok && a.UserID == userID {
		delete(repo.db.analyses, id)
		return nil
	}
	return deal.ErrNotFound
}

func compareAnalyses(a, b deal.Analysis, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	}
	return 0
}
