package service

import (
	"context"
	"strings"
	"time"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/config"
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/money"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultRecentLimit = 5

const maxRecentLimit = 50

var minQuantity = decimal.RequireFromString("0.01")

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	ClientRepo clientdomain.Repository
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	clientRepo clientdomain.Repository

	// clearPaidAt controls whether leaving the paid status clears the
	// paid_at timestamp.
	clearPaidAt bool

	locks *locker
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		clientRepo:  p.ClientRepo,
		clearPaidAt: p.Cfg.PaidAtPolicy == config.PaidAtClear,
		locks:       newLocker(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.InvoiceWithDetails, error) {
	if req.TenantID == 0 {
		return domain.InvoiceWithDetails{}, domain.ErrInvalidTenant
	}

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		return domain.InvoiceWithDetails{}, domain.ErrInvalidNumber
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return domain.InvoiceWithDetails{}, domain.ErrInvalidCurrency
	}

	taxRate, err := money.ParseNonNegative(req.TaxRate)
	if err != nil {
		return domain.InvoiceWithDetails{}, domain.ErrInvalidTaxRate
	}

	if req.InvoiceDate.IsZero() || req.DueDate.IsZero() {
		return domain.InvoiceWithDetails{}, domain.ErrInvalidDate
	}

	client, err := s.clientRepo.FindByID(ctx, req.TenantID, req.ClientID)
	if err != nil {
		return domain.InvoiceWithDetails{}, err
	}
	if client == nil {
		return domain.InvoiceWithDetails{}, domain.ErrClientNotFound
	}

	now := s.clock.Now()
	invoiceID := s.genID.Generate()

	items, subtotal, err := s.buildItems(invoiceID, now, req.Items)
	if err != nil {
		return domain.InvoiceWithDetails{}, err
	}

	taxAmount := money.Tax(subtotal, taxRate)
	total := money.Sum(subtotal, taxAmount)

	invoice := domain.Invoice{
		ID:            invoiceID,
		UserID:        req.TenantID,
		ClientID:      req.ClientID,
		InvoiceNumber: number,
		Status:        domain.InvoiceStatusPending,
		Currency:      currency,
		Subtotal:      money.Format(subtotal),
		TaxRate:       money.Format(taxRate),
		TaxAmount:     money.Format(taxAmount),
		Total:         money.Format(total),
		Notes:         req.Notes,
		InvoiceDate:   req.InvoiceDate.UTC(),
		DueDate:       req.DueDate.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &invoice, items); err != nil {
		return domain.InvoiceWithDetails{}, err
	}

	s.log.Info("invoice created",
		zap.Int64("invoice_id", int64(invoice.ID)),
		zap.String("total", invoice.Total))

	return domain.InvoiceWithDetails{
		Invoice: invoice,
		Client:  *client,
		Items:   items,
	}, nil
}

// Update patches scalar fields. Items are untouched; a tax rate change
// recomputes tax amount and total from the stored subtotal.
func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	if req.TenantID == 0 {
		return domain.Invoice{}, domain.ErrInvalidTenant
	}

	unlock := s.locks.lock(req.InvoiceID)
	defer unlock()

	invoice, err := s.repo.FindByID(ctx, req.TenantID, req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	if req.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, req.TenantID, *req.ClientID)
		if err != nil {
			return domain.Invoice{}, err
		}
		if client == nil {
			return domain.Invoice{}, domain.ErrClientNotFound
		}
		invoice.ClientID = *req.ClientID
	}
	if req.InvoiceNumber != nil {
		number := strings.TrimSpace(*req.InvoiceNumber)
		if number == "" {
			return domain.Invoice{}, domain.ErrInvalidNumber
		}
		invoice.InvoiceNumber = number
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(currency) != 3 {
			return domain.Invoice{}, domain.ErrInvalidCurrency
		}
		invoice.Currency = currency
	}
	if req.TaxRate != nil {
		taxRate, err := money.ParseNonNegative(*req.TaxRate)
		if err != nil {
			return domain.Invoice{}, domain.ErrInvalidTaxRate
		}
		subtotal, err := money.Parse(invoice.Subtotal)
		if err != nil {
			return domain.Invoice{}, err
		}
		taxAmount := money.Tax(subtotal, taxRate)
		invoice.TaxRate = money.Format(taxRate)
		invoice.TaxAmount = money.Format(taxAmount)
		invoice.Total = money.Format(money.Sum(subtotal, taxAmount))
	}
	if req.InvoiceDate != nil {
		if req.InvoiceDate.IsZero() {
			return domain.Invoice{}, domain.ErrInvalidDate
		}
		invoice.InvoiceDate = req.InvoiceDate.UTC()
	}
	if req.DueDate != nil {
		if req.DueDate.IsZero() {
			return domain.Invoice{}, domain.ErrInvalidDate
		}
		invoice.DueDate = req.DueDate.UTC()
	}
	if req.Notes != nil {
		invoice.Notes = req.Notes
	}

	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

// ReplaceItems swaps the invoice's entire item set and recomputes the
// stored subtotal, tax amount and total so the derived-totals invariant
// holds for the new set.
func (s *Service) ReplaceItems(ctx context.Context, req domain.ReplaceItemsRequest) (domain.InvoiceWithDetails, error) {
	if req.TenantID == 0 {
		return domain.InvoiceWithDetails{}, domain.ErrInvalidTenant
	}

	unlock := s.locks.lock(req.InvoiceID)
	defer unlock()

	invoice, err := s.repo.FindByID(ctx, req.TenantID, req.InvoiceID)
	if err != nil {
		return domain.InvoiceWithDetails{}, err
	}
	if invoice == nil {
		return domain.InvoiceWithDetails{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	items, subtotal, err := s.buildItems(invoice.ID, now, req.Items)
	if err != nil {
		return domain.InvoiceWithDetails{}, err
	}

	taxRate, err := money.Parse(invoice.TaxRate)
	if err != nil {
		return domain.InvoiceWithDetails{}, err
	}
	taxAmount := money.Tax(subtotal, taxRate)

	invoice.Subtotal = money.Format(subtotal)
	invoice.TaxAmount = money.Format(taxAmount)
	invoice.Total = money.Format(money.Sum(subtotal, taxAmount))
	invoice.UpdatedAt = now

	if err := s.repo.ReplaceItems(ctx, invoice, items); err != nil {
		return domain.InvoiceWithDetails{}, err
	}

	details, err := s.repo.Details(ctx, req.TenantID, invoice.ID)
	if err != nil {
		return domain.InvoiceWithDetails{}, err
	}
	if details == nil {
		return domain.InvoiceWithDetails{}, domain.ErrNotFound
	}
	return *details, nil
}

// UpdateStatus moves the invoice to any of the enumerated states.
// Entering paid stamps paid_at once; leaving paid clears it only when
// the clear policy is configured.
func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Invoice, error) {
	if req.TenantID == 0 {
		return domain.Invoice{}, domain.ErrInvalidTenant
	}

	status := domain.InvoiceStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	unlock := s.locks.lock(req.InvoiceID)
	defer unlock()

	invoice, err := s.repo.FindByID(ctx, req.TenantID, req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	if status == domain.InvoiceStatusPaid {
		if invoice.PaidAt == nil {
			invoice.PaidAt = &now
		}
	} else if s.clearPaidAt {
		invoice.PaidAt = nil
	}

	invoice.Status = status
	invoice.UpdatedAt = now

	if err := s.repo.Update(ctx, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetInvoiceRequest) (domain.InvoiceWithDetails, error) {
	if req.TenantID == 0 {
		return domain.InvoiceWithDetails{}, domain.ErrInvalidTenant
	}

	details, err := s.repo.Details(ctx, req.TenantID, req.InvoiceID)
	if err != nil {
		return domain.InvoiceWithDetails{}, err
	}
	if details == nil {
		return domain.InvoiceWithDetails{}, domain.ErrNotFound
	}
	return *details, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteInvoiceRequest) error {
	if req.TenantID == 0 {
		return domain.ErrInvalidTenant
	}

	unlock := s.locks.lock(req.InvoiceID)
	defer unlock()

	return s.repo.Delete(ctx, req.TenantID, req.InvoiceID)
}

// List returns the tenant's invoices newest first, each joined with its
// client and items. The search filter is accepted from the boundary but
// intentionally matches nothing yet; listings are filtered by status only.
func (s *Service) List(ctx context.Context, req domain.ListInvoicesRequest) ([]domain.InvoiceWithDetails, error) {
	if req.TenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && status != "all" && !domain.InvoiceStatus(status).Valid() {
		return nil, domain.ErrInvalidStatus
	}

	return s.repo.List(ctx, req.TenantID, domain.ListFilter{
		Status: status,
		Search: strings.TrimSpace(req.Search),
	})
}

func (s *Service) ListRecent(ctx context.Context, req domain.RecentInvoicesRequest) ([]domain.InvoiceWithDetails, error) {
	if req.TenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	limit := req.Limit
	if limit < 0 {
		return nil, domain.ErrInvalidLimit
	}
	if limit == 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	return s.repo.List(ctx, req.TenantID, domain.ListFilter{Limit: limit})
}

// buildItems validates item drafts and materializes them with computed
// amounts. Returns the items and their subtotal.
func (s *Service) buildItems(invoiceID snowflake.ID, now time.Time, inputs []domain.ItemInput) ([]domain.InvoiceItem, decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, decimal.Decimal{}, domain.ErrEmptyItems
	}

	items := make([]domain.InvoiceItem, 0, len(inputs))
	amounts := make([]decimal.Decimal, 0, len(inputs))
	for _, input := range inputs {
		description := strings.TrimSpace(input.Description)
		if description == "" {
			return nil, decimal.Decimal{}, domain.ErrInvalidDescription
		}

		quantity, err := money.Parse(input.Quantity)
		if err != nil || quantity.LessThan(minQuantity) {
			return nil, decimal.Decimal{}, domain.ErrInvalidQuantity
		}

		rate, err := money.ParseNonNegative(input.Rate)
		if err != nil {
			return nil, decimal.Decimal{}, domain.ErrInvalidRate
		}

		amount := money.LineAmount(quantity, rate)
		amounts = append(amounts, amount)

		items = append(items, domain.InvoiceItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			Description: description,
			Quantity:    quantity.String(),
			Rate:        money.Format(rate),
			Amount:      money.Format(amount),
			CreatedAt:   now,
		})
	}

	return items, money.Sum(amounts...), nil
}
