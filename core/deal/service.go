package deal

import (
	"context"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/startsmart/property/core"
)

var (
	// errors
	ErrNotFound = errors.New("analysis not found")

	// OrderingFields maps the public ordering names to their column.
	OrderingFields = map[string]string{
		"created_at": "created_at",
		"title":      "title",
	}
	defaultOrdering = []core.DBOrdering{{Field: "created_at", Ascending: false}}
)

type (
	Repository interface {
		CreateAnalysis(ctx context.Context, a Analysis) (Analysis, error)
		// QueryAnalyses returns the analyses owned by userID, newest first unless ordered otherwise.
		QueryAnalyses(ctx context.Context, userID string, ordering []core.DBOrdering) ([]Analysis, error)
		// GetAnalysis returns ErrNotFound when the analysis does not exist or is not owned by userID.
		GetAnalysis(ctx context.Context, userID, id string) (Analysis, error)
		DeleteAnalysis(ctx context.Context, userID, id string) error
	}

	Service interface {
		// Analyze evaluates in and builds its hand-off snapshot when every figure is finite.
		Analyze(ctx context.Context, in Inputs) (Evaluation, error)
		Save(ctx context.Context, userID string, na NewAnalysis) (Analysis, error)
		List(ctx context.Context, userID string, ordering []core.DBOrdering) ([]Analysis, error)
		Get(ctx context.Context, userID, id string) (Analysis, error)
		Delete(ctx context.Context, userID, id string) error
		// EmailMemo sends the deal memo of an analysis to its owner as a text attachment.
		EmailMemo(ctx context.Context, to mail.Address, userID, id string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) Service {
	return &service{repo: repo, mailSvc: mailSvc}
}

// Validate cleans and validates na, including its inputs.
func (na *NewAnalysis) Validate(validate *validator.Validate) error {
	na.Clean()
	if err := validate.Struct(na); err != nil {
		return err
	}
	return na.Inputs.Validate()
}

func (svc *service) Analyze(_ context.Context, in Inputs) (Evaluation, error) {
	res, err := Evaluate(in)
	if err != nil {
		return Evaluation{}, err
	}
	ev := Evaluation{Inputs: in, Results: res}
	if snap, err := NewSnapshot(in, res); err == nil {
		ev.Snapshot = &snap
	}
	return ev, nil
}

func (svc *service) Save(ctx context.Context, userID string, na NewAnalysis) (Analysis, error) {
	res, err := Evaluate(na.Inputs)
	if err != nil {
		return Analysis{}, err
	}
	a, err := svc.repo.CreateAnalysis(ctx, Analysis{
		UserID:    userID,
		Title:     core.CleanString(na.Title),
		Inputs:    na.Inputs,
		Results:   res,
		CreatedAt: core.Now(),
	})
	return a, errors.Wrap(err, "creating analysis")
}

func (svc *service) List(ctx context.Context, userID string, ordering []core.DBOrdering) ([]Analysis, error) {
	ordering = core.FilterOrderings(ordering, OrderingFields)
	if len(ordering) == 0 {
		ordering = defaultOrdering
	}
	return svc.repo.QueryAnalyses(ctx, userID, ordering)
}

func (svc *service) Get(ctx context.Context, userID, id string) (Analysis, error) {
	return svc.repo.GetAnalysis(ctx, userID, id)
}

func (svc *service) Delete(ctx context.Context, userID, id string) error {
	if _, err := svc.repo.GetAnalysis(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteAnalysis(ctx, userID, id)
}

func (svc *service) EmailMemo(ctx context.Context, to mail.Address, userID, id string) error {
	a, err := svc.repo.GetAnalysis(ctx, userID, id)
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      "Deal memo: " + a.Title,
		TemplateName: "deal_memo",
		TemplateData: struct {
			Name  string
			Title string
		}{Name: to.Name, Title: a.Title},
	}
	msg.Attach(core.NewAttachment([]byte(Memo(a)), MemoFilename(a), "text/plain; charset=utf-8"))
	svc.mailSvc.SendMessages(msg)
	return nil
}

// MemoFilename returns the attachment name of an analysis memo.
func MemoFilename(a Analysis) string {
	return "deal-memo-" + a.ID + ".txt"
}
