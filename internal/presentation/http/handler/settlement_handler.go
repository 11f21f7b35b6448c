package handler

import (
	"github.com/bkaradeniz/veresiye-api/internal/application/service"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/dto/request"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/dto/response"
	"github.com/bkaradeniz/veresiye-api/pkg/money"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementHandler handles checkout settlement HTTP requests
type SettlementHandler struct {
	settlementService *service.SettlementService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementService *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// SettleNormal handles committing a single-method checkout
func (h *SettlementHandler) SettleNormal(c *gin.Context) {
	var req request.NormalSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.settlementService.SettleNormal(c.Request.Context(), &service.NormalSettlementInput{
		SaleID:      parseOptionalUUID(req.SaleID),
		Total:       money.FromLira(req.Total),
		Discount:    toDiscount(req.Discount),
		Method:      enum.PaymentMethod(req.Method),
		Received:    money.FromLira(req.Received),
		CustomerID:  parseOptionalUUID(req.CustomerID),
		DueDate:     req.DueDate,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale settled successfully", result)
}

// SettleProductSplitLeg handles committing one leg of a product-split checkout
func (h *SettlementHandler) SettleProductSplitLeg(c *gin.Context) {
	var req request.ProductSplitLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	items := make([]service.SplitItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.SplitItem{
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	selections := make([]service.SplitSelection, len(req.Selections))
	for i, sel := range req.Selections {
		selections[i] = service.SplitSelection{Index: sel.Index, Quantity: sel.Quantity}
	}

	result, err := h.settlementService.SettleProductSplitLeg(c.Request.Context(), &service.ProductSplitLegInput{
		SaleID:     saleID,
		Items:      items,
		Selections: selections,
		Method:     enum.PaymentMethod(req.Method),
		Received:   money.FromLira(req.Received),
		CustomerID: parseOptionalUUID(req.CustomerID),
		DueDate:    req.DueDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Split leg settled successfully", result)
}

// SettleEqualSplit handles committing an N-way split checkout
func (h *SettlementHandler) SettleEqualSplit(c *gin.Context) {
	var req request.EqualSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	participants := make([]service.SplitParticipant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = service.SplitParticipant{
			Method:     enum.PaymentMethod(p.Method),
			Received:   money.FromLira(p.Received),
			CustomerID: parseOptionalUUID(p.CustomerID),
			DueDate:    p.DueDate,
		}
	}

	result, err := h.settlementService.SettleEqualSplit(c.Request.Context(), &service.EqualSplitInput{
		SaleID:         parseOptionalUUID(req.SaleID),
		Total:          money.FromLira(req.Total),
		Discount:       toDiscount(req.Discount),
		Participants:   participants,
		ConfirmOverpay: req.ConfirmOverpay,
		Description:    req.Description,
	})
	if err != nil {
		// A mid-commit failure still reports the legs that went through.
		if result != nil && len(result.Committed) > 0 {
			response.ErrorWithData(c, err, result)
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Split sale settled successfully", result)
}

func toDiscount(req *request.DiscountRequest) service.Discount {
	if req == nil {
		return service.Discount{Type: enum.DiscountTypeNone}
	}
	return service.Discount{
		Type:  enum.DiscountType(req.Type),
		Value: req.Value,
	}
}

func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
