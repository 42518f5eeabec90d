package ticket

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
)

type GetNextNumber struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetNextNumber(repo domain.Repository) *GetNextNumber {
	return &GetNextNumber{repo: repo, now: time.Now}
}

// Execute devolve o próximo "YYYY-NNNN" do ano corrente no fuso da empresa.
func (uc *GetNextNumber) Execute(ctx context.Context, companyID string) (string, error) {
	tn, err := loadTenant(ctx, uc.repo, companyID)
	if err != nil {
		return "", err
	}

	year := uc.now().In(tn.loc).Year()

	existing, err := uc.repo.ListTicketNumbers(ctx, companyID, domain.NumberPrefix(year))
	if err != nil {
		return "", err
	}

	return domain.NextNumber(year, existing), nil
}
