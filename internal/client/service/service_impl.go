package service

import (
	"context"
	"strings"

	"github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/money"
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
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	if req.TenantID == 0 {
		return domain.Client{}, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now()
	client := domain.Client{
		ID:        s.genID.Generate(),
		UserID:    req.TenantID,
		Name:      name,
		Email:     email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClientRequest) (domain.Client, error) {
	if req.TenantID == 0 {
		return domain.Client{}, domain.ErrInvalidTenant
	}

	client, err := s.repo.FindByID(ctx, req.TenantID, req.ClientID)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		client.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.Client{}, domain.ErrInvalidEmail
		}
		client.Email = email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Address != nil {
		client.Address = req.Address
	}

	client.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, client); err != nil {
		return domain.Client{}, err
	}
	return *client, nil
}

// List returns the tenant's clients newest first, each carrying invoice
// count and total drawn from a single grouped aggregation.
func (s *Service) List(ctx context.Context, req domain.ListClientsRequest) ([]domain.ClientWithStats, error) {
	if req.TenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	clients, err := s.repo.List(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	byClient := make(map[snowflake.ID]domain.InvoiceStats, len(stats))
	for _, stat := range stats {
		byClient[stat.ClientID] = stat
	}

	result := make([]domain.ClientWithStats, 0, len(clients))
	for _, client := range clients {
		entry := domain.ClientWithStats{
			Client:      client,
			TotalAmount: money.Zero,
		}
		if stat, ok := byClient[client.ID]; ok {
			entry.InvoiceCount = stat.Count
			total, err := money.Reformat(stat.TotalAmount)
			if err != nil {
				return nil, err
			}
			entry.TotalAmount = total
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteClientRequest) error {
	if req.TenantID == 0 {
		return domain.ErrInvalidTenant
	}

	err := s.repo.DeleteCascade(ctx, req.TenantID, req.ClientID)
	if err != nil {
		return err
	}

	s.log.Info("client deleted with cascading invoices",
		zap.Int64("client_id", int64(req.ClientID)))
	return nil
}
