package service

import (
	"context"
	"strings"

	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/money"
	"github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/JohnAlex1900/Smart-Invoice/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return domain.User{}, domain.ErrInvalidExternalID
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidEmail
	}

	businessName := strings.TrimSpace(req.BusinessName)
	if businessName == "" {
		return domain.User{}, domain.ErrInvalidBusiness
	}

	contactPerson := strings.TrimSpace(req.ContactPerson)
	if contactPerson == "" {
		return domain.User{}, domain.ErrInvalidContact
	}

	currency := strings.ToUpper(strings.TrimSpace(req.DefaultCurrency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return domain.User{}, domain.ErrInvalidCurrency
	}

	taxRate := money.Zero
	if strings.TrimSpace(req.DefaultTaxRate) != "" {
		parsed, err := money.ParseNonNegative(req.DefaultTaxRate)
		if err != nil {
			return domain.User{}, domain.ErrInvalidTaxRate
		}
		taxRate = money.Format(parsed)
	}

	paymentTerms := 30
	if req.DefaultPaymentTerms != nil {
		if *req.DefaultPaymentTerms <= 0 {
			return domain.User{}, domain.ErrInvalidPaymentTerm
		}
		paymentTerms = *req.DefaultPaymentTerms
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err != nil {
		return domain.User{}, err
	} else if existing != nil {
		return domain.User{}, domain.ErrEmailTaken
	}
	if existing, err := s.repo.FindByExternalID(ctx, externalID); err != nil {
		return domain.User{}, err
	} else if existing != nil {
		return domain.User{}, domain.ErrExternalIDTaken
	}

	now := s.clock.Now()
	user := domain.User{
		ID:                  s.genID.Generate(),
		Email:               email,
		BusinessName:        businessName,
		ContactPerson:       contactPerson,
		Phone:               req.Phone,
		Address:             req.Address,
		DefaultCurrency:     currency,
		DefaultTaxRate:      taxRate,
		DefaultPaymentTerms: paymentTerms,
		ExternalID:          externalID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, &user); err != nil {
		// The unique indexes close the race left by the lookups above.
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, err
	}

	s.log.Info("tenant profile created", zap.Int64("user_id", int64(user.ID)))
	return user, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateUserRequest) (domain.User, error) {
	if req.TenantID == 0 {
		return domain.User{}, domain.ErrNotFound
	}

	user, err := s.repo.FindByID(ctx, req.TenantID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.User{}, domain.ErrInvalidEmail
		}
		if email != user.Email {
			if existing, err := s.repo.FindByEmail(ctx, email); err != nil {
				return domain.User{}, err
			} else if existing != nil {
				return domain.User{}, domain.ErrEmailTaken
			}
		}
		user.Email = email
	}
	if req.BusinessName != nil {
		name := strings.TrimSpace(*req.BusinessName)
		if name == "" {
			return domain.User{}, domain.ErrInvalidBusiness
		}
		user.BusinessName = name
	}
	if req.ContactPerson != nil {
		contact := strings.TrimSpace(*req.ContactPerson)
		if contact == "" {
			return domain.User{}, domain.ErrInvalidContact
		}
		user.ContactPerson = contact
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.DefaultCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.DefaultCurrency))
		if len(currency) != 3 {
			return domain.User{}, domain.ErrInvalidCurrency
		}
		user.DefaultCurrency = currency
	}
	if req.DefaultTaxRate != nil {
		parsed, err := money.ParseNonNegative(*req.DefaultTaxRate)
		if err != nil {
			return domain.User{}, domain.ErrInvalidTaxRate
		}
		user.DefaultTaxRate = money.Format(parsed)
	}
	if req.DefaultPaymentTerms != nil {
		if *req.DefaultPaymentTerms <= 0 {
			return domain.User{}, domain.ErrInvalidPaymentTerm
		}
		user.DefaultPaymentTerms = *req.DefaultPaymentTerms
	}

	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, err
	}

	return *user, nil
}

func (s *Service) GetByExternalID(ctx context.Context, req domain.GetUserByExternalIDRequest) (domain.User, error) {
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return domain.User{}, domain.ErrInvalidExternalID
	}

	user, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}
