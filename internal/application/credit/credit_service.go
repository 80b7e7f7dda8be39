package credit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/shared"
)

// Service handles store-credit operations: manual grants, consumption against
// sales and balance queries. Exchange-driven grants are written by the
// exchange service inside its own transaction; this service covers the rest.
type Service struct {
	scope          TransactionScope
	creditRepo     credit.Repository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewService creates a new credit Service
func NewService(scope TransactionScope, creditRepo credit.Repository) *Service {
	return &Service{
		scope:      scope,
		creditRepo: creditRepo,
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Grant issues a store credit outside the exchange flow
func (s *Service) Grant(ctx context.Context, tenantID uuid.UUID, req GrantCreditRequest) (*CreditResponse, error) {
	c, err := credit.NewClientCredit(tenantID, req.DocumentNumber, req.Phone, req.ClientName, req.Amount, req.Reason, nil)
	if err != nil {
		return nil, err
	}
	if err := s.creditRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)

	response := ToCreditResponse(c)
	return &response, nil
}

// UseCredits deducts the requested amount from the client's active credits,
// oldest first. The whole consumption commits atomically; an insufficient
// balance mutates nothing.
func (s *Service) UseCredits(ctx context.Context, tenantID uuid.UUID, req UseCreditsRequest) (*UseCreditsResponse, error) {
	var response *UseCreditsResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		active, err := repos.CreditRepo().FindActiveByClient(ctx, tenantID, req.DocumentNumber, req.Phone)
		if err != nil {
			return err
		}

		result, err := credit.Consume(active, req.Amount, req.SaleID, s.now())
		if err != nil {
			return err
		}

		for _, c := range result.Updated {
			if err := repos.CreditRepo().SaveWithLock(ctx, c); err != nil {
				return err
			}
		}
		for _, c := range result.Created {
			if err := repos.CreditRepo().Save(ctx, c); err != nil {
				return err
			}
		}

		used := make([]UsedCreditResponse, len(result.Consumptions))
		for i, u := range result.Consumptions {
			used[i] = UsedCreditResponse{CreditID: u.CreditID, AmountUsed: u.AmountUsed}
		}
		response = &UseCreditsResponse{
			TotalUsed:        result.TotalUsed,
			UsedCredits:      used,
			RemainingCredits: credit.Balance(active),
		}

		for _, c := range result.Updated {
			s.publish(ctx, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Balance returns the sum of a client's active credits
func (s *Service) Balance(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string) (*BalanceResponse, error) {
	if documentNumber == "" && phone == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client document number or phone is required")
	}
	active, err := s.creditRepo.FindActiveByClient(ctx, tenantID, documentNumber, phone)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{
		DocumentNumber: documentNumber,
		Phone:          phone,
		Balance:        credit.Balance(active),
		ActiveCredits:  len(active),
	}, nil
}

// ListByClient returns every credit of a client regardless of status
func (s *Service) ListByClient(ctx context.Context, tenantID uuid.UUID, documentNumber, phone string, filter shared.Filter) ([]CreditResponse, error) {
	if documentNumber == "" && phone == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client document number or phone is required")
	}
	credits, err := s.creditRepo.FindByClient(ctx, tenantID, documentNumber, phone, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CreditResponse, len(credits))
	for i, c := range credits {
		responses[i] = ToCreditResponse(c)
	}
	return responses, nil
}

func (s *Service) publish(ctx context.Context, c *credit.ClientCredit) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range c.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	c.ClearDomainEvents()
}
