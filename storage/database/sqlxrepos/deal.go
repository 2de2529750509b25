package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/deal"
)

const analysisColumns = `"id", "user_id", "title", "inputs", "results", "created_at"`

type (
	dealRepository struct {
		db *sqlx.DB
	}

	analysisRow struct {
		ID        string    `db:"id"`
		UserID    string    `db:"user_id"`
		Title     string    `db:"title"`
		Inputs    null.JSON `db:"inputs"`
		Results   null.JSON `db:"results"`
		CreatedAt time.Time `db:"created_at"`
	}
)

var _ deal.Repository = (*dealRepository)(nil) // interface compliance check

func NewDealRepository(db *sqlx.DB) deal.Repository {
	return &dealRepository{db: db}
}

func toAnalysisRow(a deal.Analysis) (analysisRow, error) {
	row := analysisRow{ID: a.ID, UserID: a.UserID, Title: a.Title, CreatedAt: a.CreatedAt.UTC()}
	if err := row.Inputs.Marshal(a.Inputs); err != nil {
		return analysisRow{}, errors.Wrap(err, "marshalling inputs")
	}
	if err := row.Results.Marshal(a.Results); err != nil {
		return analysisRow{}, errors.Wrap(err, "marshalling results")
	}
	return row, nil
}

func (row analysisRow) analysis() (deal.Analysis, error) {
	a := deal.Analysis{ID: row.ID, UserID: row.UserID, Title: row.Title, CreatedAt: row.CreatedAt.UTC()}
	if err := row.Inputs.Unmarshal(&a.Inputs); err != nil {
		return deal.Analysis{}, errors.Wrap(err, "unmarshalling inputs")
	}
	if err := row.Results.Unmarshal(&a.Results); err != nil {
		return deal.Analysis{}, errors.Wrap(err, "unmarshalling results")
	}
	return a, nil
}

func (repo *dealRepository) CreateAnalysis(ctx context.Context, a deal.Analysis) (deal.Analysis, error) {
	a.ID = uuid.New().String()
	row, err := toAnalysisRow(a)
	if err != nil {
		return deal.Analysis{}, err
	}
	q := `INSERT INTO "deal_analyses" (` + analysisColumns + `)
		VALUES (:id, :user_id, :title, :inputs, :results, :created_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return deal.Analysis{}, errors.Wrap(err, "inserting analysis")
	}
	return a, nil
}

func (repo *dealRepository) QueryAnalyses(ctx context.Context, userID string, ordering []core.DBOrdering) ([]deal.Analysis, error) {
	var rows []analysisRow
	q := `SELECT ` + analysisColumns + ` FROM "deal_analyses" WHERE "user_id" = $1` +
		orderBy(ordering, deal.OrderingFields, `"created_at" DESC`)
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "selecting analyses")
	}

	res := make([]deal.Analysis, 0, len(rows))
	for _, row := range rows {
		a, err := row.analysis()
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}

func (repo *dealRepository) GetAnalysis(ctx context.Context, userID, id string) (deal.Analysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return deal.Analysis{}, deal.ErrNotFound
	}
	var row analysisRow
	q := `SELECT ` + analysisColumns + ` FROM "deal_analyses" WHERE "id" = $1 AND "user_id" = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		return deal.Analysis{}, trapNoRowsErr(err, deal.ErrNotFound, "selecting analysis")
	}
	return row.analysis()
}

func (repo *dealRepository) DeleteAnalysis(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return deal.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM "deal_analyses" WHERE "id" = $1 AND "user_id" = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting analysis")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return deal.ErrNotFound
	}
	return nil
}
