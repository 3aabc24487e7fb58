package server

import (
	"net/http"

	"github.com/JohnAlex1900/Smart-Invoice/internal/tenantctx"
	userdomain "github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Email               string  `json:"email"`
	BusinessName        string  `json:"businessName"`
	ContactPerson       string  `json:"contactPerson"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	DefaultCurrency     string  `json:"defaultCurrency"`
	DefaultTaxRate      string  `json:"defaultTaxRate"`
	DefaultPaymentTerms *int    `json:"defaultPaymentTerms"`
}

func (s *Server) CreateUser(c *gin.Context) {
	subject, ok := tenantctx.SubjectFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateUserRequest{
		ExternalID:          subject,
		Email:               req.Email,
		BusinessName:        req.BusinessName,
		ContactPerson:       req.ContactPerson,
		Phone:               req.Phone,
		Address:             req.Address,
		DefaultCurrency:     req.DefaultCurrency,
		DefaultTaxRate:      req.DefaultTaxRate,
		DefaultPaymentTerms: req.DefaultPaymentTerms,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (s *Server) GetCurrentUser(c *gin.Context) {
	subject, ok := tenantctx.SubjectFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	user, err := s.userSvc.GetByExternalID(c.Request.Context(),
		userdomain.GetUserByExternalIDRequest{ExternalID: subject})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

type updateUserRequest struct {
	Email               *string `json:"email"`
	BusinessName        *string `json:"businessName"`
	ContactPerson       *string `json:"contactPerson"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	DefaultCurrency     *string `json:"defaultCurrency"`
	DefaultTaxRate      *string `json:"defaultTaxRate"`
	DefaultPaymentTerms *int    `json:"defaultPaymentTerms"`
}

func (s *Server) UpdateCurrentUser(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Update(c.Request.Context(), userdomain.UpdateUserRequest{
		TenantID:            tenantID,
		Email:               req.Email,
		BusinessName:        req.BusinessName,
		ContactPerson:       req.ContactPerson,
		Phone:               req.Phone,
		Address:             req.Address,
		DefaultCurrency:     req.DefaultCurrency,
		DefaultTaxRate:      req.DefaultTaxRate,
		DefaultPaymentTerms: req.DefaultPaymentTerms,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
