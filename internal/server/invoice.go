package server

import (
	"net/http"
	"strconv"
	"strings"

	invoicedomain "github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/tenantctx"
	"github.com/gin-gonic/gin"
)

type invoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	Rate        string  `json:"rate"`
	Amount      *string `json:"amount"`
}

func itemInputs(items []invoiceItemRequest) []invoicedomain.ItemInput {
	inputs := make([]invoicedomain.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, invoicedomain.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	return inputs
}

type createInvoiceRequest struct {
	ClientID      string               `json:"clientId"`
	InvoiceNumber string               `json:"invoiceNumber"`
	Currency      string               `json:"currency"`
	TaxRate       string               `json:"taxRate"`
	InvoiceDate   string               `json:"invoiceDate"`
	DueDate       string               `json:"dueDate"`
	Notes         *string              `json:"notes"`
	Items         []invoiceItemRequest `json:"items"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	clientID, err := parseID(req.ClientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	details, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		TenantID:      tenantID,
		ClientID:      clientID,
		InvoiceNumber: req.InvoiceNumber,
		Currency:      req.Currency,
		TaxRate:       req.TaxRate,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Notes:         req.Notes,
		Items:         itemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": details})
}

func (s *Server) GetInvoice(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoiceID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	details, err := s.invoiceSvc.Get(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (s *Server) ListInvoices(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoicesRequest{
		TenantID: tenantID,
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) ListRecentInvoices(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		limit = parsed
	}

	invoices, err := s.invoiceSvc.ListRecent(c.Request.Context(), invoicedomain.RecentInvoicesRequest{
		TenantID: tenantID,
		Limit:    limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

type updateInvoiceRequest struct {
	ClientID      *string `json:"clientId"`
	InvoiceNumber *string `json:"invoiceNumber"`
	Currency      *string `json:"currency"`
	TaxRate       *string `json:"taxRate"`
	InvoiceDate   *string `json:"invoiceDate"`
	DueDate       *string `json:"dueDate"`
	Notes         *string `json:"notes"`
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoiceID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update := invoicedomain.UpdateInvoiceRequest{
		TenantID:      tenantID,
		InvoiceID:     invoiceID,
		InvoiceNumber: req.InvoiceNumber,
		Currency:      req.Currency,
		TaxRate:       req.TaxRate,
		Notes:         req.Notes,
	}

	if req.ClientID != nil {
		clientID, err := parseID(*req.ClientID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		update.ClientID = &clientID
	}
	if update.InvoiceDate, err = parseOptionalDate(req.InvoiceDate); err != nil {
		AbortWithError(c, err)
		return
	}
	if update.DueDate, err = parseOptionalDate(req.DueDate); err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoiceSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

type replaceItemsRequest struct {
	Items []invoiceItemRequest `json:"items"`
}

func (s *Server) ReplaceInvoiceItems(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoiceID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req replaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	details, err := s.invoiceSvc.ReplaceItems(c.Request.Context(), invoicedomain.ReplaceItemsRequest{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		Items:     itemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoiceID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invoice, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), invoicedomain.UpdateStatusRequest{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		Status:    req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoiceID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	err = s.invoiceSvc.Delete(c.Request.Context(), invoicedomain.DeleteInvoiceRequest{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
