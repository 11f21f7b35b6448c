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

// CashHandler handles cash register HTTP requests
type CashHandler struct {
	cashService *service.CashService
}

// NewCashHandler creates a new cash handler
func NewCashHandler(cashService *service.CashService) *CashHandler {
	return &CashHandler{cashService: cashService}
}

// OpenSession handles opening the register
func (h *CashHandler) OpenSession(c *gin.Context) {
	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.cashService.OpenSession(c.Request.Context(), *userID, money.FromLira(req.OpeningBalance))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened successfully", session)
}

// GetOpenSession handles looking up the currently open session
func (h *CashHandler) GetOpenSession(c *gin.Context) {
	session, err := h.cashService.GetOpenSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Open session retrieved successfully", session)
}

// AddTransaction handles appending a deposit or withdrawal to a session
func (h *CashHandler) AddTransaction(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.AddCashTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	flowType := enum.CashFlowDeposit
	if req.Type == "withdrawal" {
		flowType = enum.CashFlowWithdrawal
	}

	tx, err := h.cashService.AddCashTransaction(c.Request.Context(), &service.AddCashTransactionInput{
		SessionID:   sessionID,
		Type:        flowType,
		Amount:      money.FromLira(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash transaction recorded successfully", tx)
}

// RecordCounting handles recording the operator's physical count
func (h *CashHandler) RecordCounting(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.RecordCountingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.cashService.RecordCounting(c.Request.Context(), sessionID, money.FromLira(req.CountedAmount))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Counting recorded successfully", result)
}

// CloseSession handles closing a session
func (h *CashHandler) CloseSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	// Cashiers may only close a session they opened themselves.
	if !IsAdmin(c) {
		open, err := h.cashService.GetOpenSession(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		userID := GetUserID(c)
		if open == nil || userID == nil || open.OpenedBy != *userID {
			response.Forbidden(c, "Only the opening cashier or an admin can close this session")
			return
		}
	}

	session, err := h.cashService.CloseSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed successfully", session)
}

// ListSessions handles listing past and present sessions
func (h *CashHandler) ListSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.cashService.ListSessions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sessions retrieved successfully", result)
}

// GetReport handles building a session's end-of-day report
func (h *CashHandler) GetReport(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	report, err := h.cashService.GetSessionReport(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session report retrieved successfully", report)
}
