package handler

import (
	"strconv"

	"github.com/bkaradeniz/veresiye-api/internal/application/service"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/dto/request"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/dto/response"
	"github.com/bkaradeniz/veresiye-api/pkg/money"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles ledger-related HTTP requests
type LedgerHandler struct {
	ledgerService     *service.LedgerService
	settlementService *service.SettlementService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService, settlementService *service.SettlementService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:     ledgerService,
		settlementService: settlementService,
	}
}

// ListTransactions handles listing a customer's ledger entries
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.ledgerService.ListTransactions(c.Request.Context(), customerID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// AddTransaction handles booking a manual debt or payment
func (h *LedgerHandler) AddTransaction(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	creditType := enum.CreditTypeDebt
	if req.Type == "payment" {
		creditType = enum.CreditTypePayment
	}

	result, err := h.ledgerService.AddTransaction(c.Request.Context(), &service.AddTransactionInput{
		CustomerID:  customerID,
		Type:        creditType,
		Amount:      money.FromLira(req.Amount),
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", gin.H{
		"transaction": result.Transaction,
		"surplus":     money.ToLira(result.Surplus),
	})
}

// CollectPayment handles taking money against an existing debt
func (h *LedgerHandler) CollectPayment(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.CollectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.settlementService.CollectPayment(c.Request.Context(), &service.CollectPaymentInput{
		CustomerID:  customerID,
		Amount:      money.FromLira(req.Amount),
		Method:      enum.PaymentMethod(req.Method),
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment collected successfully", result)
}

// RefreshOverdue handles flipping past-due entries to overdue
func (h *LedgerHandler) RefreshOverdue(c *gin.Context) {
	updated, err := h.ledgerService.RefreshOverdueStatuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue statuses refreshed successfully", gin.H{"updated": updated})
}
