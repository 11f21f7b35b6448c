package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/bkaradeniz/veresiye-api/pkg/money"
	"github.com/bkaradeniz/veresiye-api/pkg/terminal"
	"github.com/bkaradeniz/veresiye-api/pkg/utils"
	"github.com/google/uuid"
)

// SettlementService resolves a checkout into ledger entries and drawer
// movements. It is the only caller of the card terminal and serializes
// terminal traffic: one payment in flight at a time, Connect always paired
// with Disconnect.
type SettlementService struct {
	ledger       *LedgerService
	cash         *CashService
	customerRepo repository.CustomerRepository
	terminal     terminal.Terminal
	device       string
	vatRate      float64

	terminalMu sync.Mutex
}

// NewSettlementService creates a new settlement service. vatRate is the VAT
// percentage already contained in retail prices, reported on receipts.
func NewSettlementService(
	ledger *LedgerService,
	cash *CashService,
	customerRepo repository.CustomerRepository,
	term terminal.Terminal,
	device string,
	vatRate float64,
) *SettlementService {
	return &SettlementService{
		ledger:       ledger,
		cash:         cash,
		customerRepo: customerRepo,
		terminal:     term,
		device:       device,
		vatRate:      vatRate,
	}
}

// Discount is a checkout-level reduction applied to the pre-discount total.
// Value is a percentage for percent discounts and lira for amount discounts.
type Discount struct {
	Type  enum.DiscountType `json:"type"`
	Value float64           `json:"value"`
}

// Apply returns the discounted total and the amount taken off, in kuruş.
// Amount discounts are clamped so the result never goes negative.
func (d Discount) Apply(total int64) (int64, int64) {
	switch d.Type {
	case enum.DiscountTypePercent:
		discounted := money.ApplyPercentDiscount(total, d.Value)
		return discounted, total - discounted
	case enum.DiscountTypeAmount:
		discounted := money.ApplyAmountDiscount(total, money.FromLira(d.Value))
		return discounted, total - discounted
	}
	return total, 0
}

func (d Discount) provenance(total, discounted int64) *DiscountProvenance {
	if d.Type == enum.DiscountTypeNone || total == discounted {
		return nil
	}
	return &DiscountProvenance{
		OriginalAmount: total,
		DiscountAmount: total - discounted,
		Type:           d.Type,
		Value:          d.Value,
	}
}

// NormalSettlementInput is a single-method checkout
type NormalSettlementInput struct {
	SaleID      *uuid.UUID
	Total       int64 // pre-discount, kuruş
	Discount    Discount
	Method      enum.PaymentMethod
	Received    int64 // kuruş, cash variants only
	CustomerID  *uuid.UUID
	DueDate     *time.Time
	Description string
}

// SettlementResult is the outcome of a committed checkout
type SettlementResult struct {
	SaleID          uuid.UUID                 `json:"sale_id"`
	ReceiptNo       string                    `json:"receipt_no"`
	Method          enum.PaymentMethod        `json:"method"`
	Total           float64                   `json:"total"`
	DiscountedTotal float64                   `json:"discounted_total"`
	Change          float64                   `json:"change"`
	VATIncluded     float64                   `json:"vat_included"`
	CashLinked      bool                      `json:"cash_linked"`
	Transaction     *entity.CreditTransaction `json:"transaction,omitempty"`
}

// SettleNormal commits a single-method checkout. Terminal methods collect the
// full discounted total through the card terminal before anything is written;
// a terminal failure therefore leaves the ledger and the drawer untouched.
func (s *SettlementService) SettleNormal(ctx context.Context, input *NormalSettlementInput) (*SettlementResult, error) {
	if input.Total <= 0 {
		return nil, apperror.NewBadRequestError("Total must be positive")
	}
	if !input.Method.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}
	if !input.Discount.Type.Valid() {
		return nil, apperror.NewBadRequestError("Unknown discount type")
	}

	discounted, _ := input.Discount.Apply(input.Total)

	var change int64
	switch {
	case input.Method == enum.PaymentMethodCredit:
		if input.CustomerID == nil {
			return nil, apperror.NewBadRequestError("Credit settlement requires a customer")
		}
	case input.Method.CashEquivalent():
		if input.Received < discounted {
			return nil, apperror.ErrInsufficientAmount
		}
		change = input.Received - discounted
	}

	if input.Method.UsesTerminal() {
		if err := s.chargeTerminal(discounted); err != nil {
			return nil, err
		}
	}

	saleID := saleIDOrNew(input.SaleID)
	result := &SettlementResult{
		SaleID:          saleID,
		ReceiptNo:       utils.GenerateReceiptNo("SAT"),
		Method:          input.Method,
		Total:           money.ToLira(input.Total),
		DiscountedTotal: money.ToLira(discounted),
		Change:          money.ToLira(change),
		VATIncluded:     money.ToLira(money.ExtractVAT(discounted, s.vatRate)),
	}

	description := input.Description
	if description == "" {
		description = "Satış"
	}

	if input.Method == enum.PaymentMethodCredit {
		txResult, err := s.ledger.AddTransaction(ctx, &AddTransactionInput{
			CustomerID:    *input.CustomerID,
			Type:          enum.CreditTypeDebt,
			Amount:        discounted,
			Description:   description,
			DueDate:       input.DueDate,
			RelatedSaleID: &saleID,
			Discount:      input.Discount.provenance(input.Total, discounted),
		})
		if err != nil {
			return nil, err
		}
		result.Transaction = txResult.Transaction
		return result, nil
	}

	if input.Method.CashEquivalent() {
		linked, err := s.depositIfSessionOpen(ctx, discounted, description, &saleID)
		if err != nil {
			if input.Method.UsesTerminal() {
				// The terminal already took the money; surface the gap
				// instead of presenting a false success.
				log.Printf("INTEGRITY: sale %s charged on terminal but drawer write failed: %v", saleID, err)
				return nil, apperror.NewIntegrityError("Ödeme terminalden alındı ancak kasa hareketi yazılamadı")
			}
			return nil, err
		}
		result.CashLinked = linked
	}

	return result, nil
}

// SplitItem is a line item still unpaid in a product-split checkout
type SplitItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"` // lira
	Quantity  int     `json:"quantity"`
}

// SplitSelection picks a sub-quantity of a remaining item for the current leg
type SplitSelection struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity"`
}

// ProductSplitLegInput pays for a selection of the remaining items
type ProductSplitLegInput struct {
	SaleID     uuid.UUID
	Items      []SplitItem
	Selections []SplitSelection
	Method     enum.PaymentMethod
	Received   int64
	CustomerID *uuid.UUID
	DueDate    *time.Time
}

// ProductSplitLegResult reports one committed leg and what is still unpaid
type ProductSplitLegResult struct {
	SaleID      uuid.UUID                 `json:"sale_id"`
	Paid        float64                   `json:"paid"`
	Change      float64                   `json:"change"`
	CashLinked  bool                      `json:"cash_linked"`
	Transaction *entity.CreditTransaction `json:"transaction,omitempty"`
	Remaining   []SplitItem               `json:"remaining"`
	Completed   bool                      `json:"completed"`
}

// SettleProductSplitLeg validates and commits one leg of a product-split
// checkout. The checkout is complete once the remaining-items list is empty.
func (s *SettlementService) SettleProductSplitLeg(ctx context.Context, input *ProductSplitLegInput) (*ProductSplitLegResult, error) {
	if len(input.Selections) == 0 {
		return nil, apperror.NewBadRequestError("No items selected")
	}
	if !input.Method.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	// Selections may repeat an index, so quantities are summed per item
	// before checking availability.
	selected := make(map[int]int, len(input.Selections))
	var partialCost int64
	for _, sel := range input.Selections {
		if sel.Index < 0 || sel.Index >= len(input.Items) {
			return nil, apperror.NewBadRequestError("Selected item does not exist")
		}
		item := input.Items[sel.Index]
		if sel.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Invalid quantity for " + item.Name)
		}
		selected[sel.Index] += sel.Quantity
		partialCost += money.FromLira(item.UnitPrice) * int64(sel.Quantity)
	}
	for idx, qty := range selected {
		if qty > input.Items[idx].Quantity {
			return nil, apperror.NewBadRequestError("Invalid quantity for " + input.Items[idx].Name)
		}
	}
	if partialCost <= 0 {
		return nil, apperror.NewBadRequestError("Selected items have no cost")
	}

	var change int64
	switch {
	case input.Method == enum.PaymentMethodCredit:
		if input.CustomerID == nil {
			return nil, apperror.NewBadRequestError("Credit settlement requires a customer")
		}
	case input.Method.CashEquivalent():
		if input.Received < partialCost {
			return nil, apperror.ErrInsufficientAmount
		}
		change = input.Received - partialCost
	}

	if input.Method.UsesTerminal() {
		if err := s.chargeTerminal(partialCost); err != nil {
			return nil, err
		}
	}

	result := &ProductSplitLegResult{
		SaleID: input.SaleID,
		Paid:   money.ToLira(partialCost),
		Change: money.ToLira(change),
	}

	if input.Method == enum.PaymentMethodCredit {
		txResult, err := s.ledger.AddTransaction(ctx, &AddTransactionInput{
			CustomerID:    *input.CustomerID,
			Type:          enum.CreditTypeDebt,
			Amount:        partialCost,
			Description:   "Satış (ürün bölüşümü)",
			DueDate:       input.DueDate,
			RelatedSaleID: &input.SaleID,
		})
		if err != nil {
			return nil, err
		}
		result.Transaction = txResult.Transaction
	} else if input.Method.CashEquivalent() {
		linked, err := s.depositIfSessionOpen(ctx, partialCost, "Satış (ürün bölüşümü)", &input.SaleID)
		if err != nil {
			if input.Method.UsesTerminal() {
				log.Printf("INTEGRITY: sale %s charged on terminal but drawer write failed: %v", input.SaleID, err)
				return nil, apperror.NewIntegrityError("Ödeme terminalden alındı ancak kasa hareketi yazılamadı")
			}
			return nil, err
		}
		result.CashLinked = linked
	}

	// Reduce paid quantities out of the remaining list only after the leg
	// committed, so a failed leg leaves the checkout state untouched.
	remaining := make([]SplitItem, 0, len(input.Items))
	for i, item := range input.Items {
		item.Quantity -= selected[i]
		if item.Quantity > 0 {
			remaining = append(remaining, item)
		}
	}
	result.Remaining = remaining
	result.Completed = len(remaining) == 0

	return result, nil
}

// SplitParticipant is one payer in an equal-split checkout
type SplitParticipant struct {
	Method     enum.PaymentMethod `json:"method"`
	Received   int64              `json:"-"`
	CustomerID *uuid.UUID         `json:"customer_id,omitempty"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
}

// EqualSplitInput commits an N-way split checkout in one shot
type EqualSplitInput struct {
	SaleID         *uuid.UUID
	Total          int64
	Discount       Discount
	Participants   []SplitParticipant
	ConfirmOverpay bool
	Description    string
}

// EqualSplitLeg reports one participant's committed payment
type EqualSplitLeg struct {
	Index      int                `json:"index"`
	Method     enum.PaymentMethod `json:"method"`
	Amount     float64            `json:"amount"`
	CashLinked bool               `json:"cash_linked"`
}

// EqualSplitResult lists committed legs. When a leg fails mid-commit, the
// result still reports the legs that already went through so the operator can
// resolve the remainder instead of losing track of partial payment.
type EqualSplitResult struct {
	SaleID          uuid.UUID       `json:"sale_id"`
	Total           float64         `json:"total"`
	DiscountedTotal float64         `json:"discounted_total"`
	Surplus         float64         `json:"surplus"`
	Committed       []EqualSplitLeg `json:"committed"`
}

// SettleEqualSplit validates all participants up front, then commits them in
// order. A shortfall is rejected outright; a surplus needs the operator's
// explicit confirmation since the excess cannot be attributed to a single
// payer's change.
func (s *SettlementService) SettleEqualSplit(ctx context.Context, input *EqualSplitInput) (*EqualSplitResult, error) {
	if input.Total <= 0 {
		return nil, apperror.NewBadRequestError("Total must be positive")
	}
	if len(input.Participants) == 0 {
		return nil, apperror.NewBadRequestError("At least one participant is required")
	}
	if !input.Discount.Type.Valid() {
		return nil, apperror.NewBadRequestError("Unknown discount type")
	}

	discounted, _ := input.Discount.Apply(input.Total)

	var received int64
	for i := range input.Participants {
		p := &input.Participants[i]
		if !p.Method.Valid() {
			return nil, apperror.NewBadRequestError("Unknown payment method")
		}
		if p.Method == enum.PaymentMethodCredit && p.CustomerID == nil {
			return nil, apperror.NewBadRequestError("Credit settlement requires a customer")
		}
		if p.Received <= 0 {
			return nil, apperror.NewBadRequestError("Participant amount must be positive")
		}
		received += p.Received
	}

	if received < discounted {
		return nil, apperror.ErrInsufficientAmount
	}
	surplus := received - discounted
	if surplus > 0 && !input.ConfirmOverpay {
		return nil, apperror.NewOverpayConfirmationRequired(money.ToLira(surplus))
	}

	saleID := saleIDOrNew(input.SaleID)
	description := input.Description
	if description == "" {
		description = "Satış (eşit bölüşüm)"
	}
	prov := input.Discount.provenance(input.Total, discounted)

	result := &EqualSplitResult{
		SaleID:          saleID,
		Total:           money.ToLira(input.Total),
		DiscountedTotal: money.ToLira(discounted),
		Surplus:         money.ToLira(surplus),
		Committed:       make([]EqualSplitLeg, 0, len(input.Participants)),
	}

	for i := range input.Participants {
		p := &input.Participants[i]
		leg := EqualSplitLeg{
			Index:  i,
			Method: p.Method,
			Amount: money.ToLira(p.Received),
		}

		if p.Method.UsesTerminal() {
			if err := s.chargeTerminal(p.Received); err != nil {
				return result, err
			}
		}

		if p.Method == enum.PaymentMethodCredit {
			if _, err := s.ledger.AddTransaction(ctx, &AddTransactionInput{
				CustomerID:    *p.CustomerID,
				Type:          enum.CreditTypeDebt,
				Amount:        p.Received,
				Description:   description,
				DueDate:       p.DueDate,
				RelatedSaleID: &saleID,
				Discount:      prov,
			}); err != nil {
				return result, err
			}
		} else if p.Method.CashEquivalent() {
			linked, err := s.depositIfSessionOpen(ctx, p.Received, description, &saleID)
			if err != nil {
				if p.Method.UsesTerminal() {
					log.Printf("INTEGRITY: sale %s charged on terminal but drawer write failed: %v", saleID, err)
					return result, apperror.NewIntegrityError("Ödeme terminalden alındı ancak kasa hareketi yazılamadı")
				}
				return result, err
			}
			leg.CashLinked = linked
		}

		result.Committed = append(result.Committed, leg)
	}

	return result, nil
}

// CollectPaymentInput records a payment against an existing tab
type CollectPaymentInput struct {
	CustomerID  uuid.UUID
	Amount      int64
	Method      enum.PaymentMethod
	Description string
}

// CollectPaymentResult reports the recorded payment. CashLinked is false when
// the register was closed: the payment still stands in the ledger, only the
// drawer linkage was skipped.
type CollectPaymentResult struct {
	Transaction *entity.CreditTransaction `json:"transaction"`
	Surplus     float64                   `json:"surplus"`
	CashLinked  bool                      `json:"cash_linked"`
}

// CollectPayment takes money against a customer's outstanding debt, outside
// of any checkout. Debt payments cannot themselves go on the tab.
func (s *SettlementService) CollectPayment(ctx context.Context, input *CollectPaymentInput) (*CollectPaymentResult, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}
	if !input.Method.Valid() || input.Method == enum.PaymentMethodCredit {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Method.UsesTerminal() {
		if err := s.chargeTerminal(input.Amount); err != nil {
			return nil, err
		}
	}

	description := input.Description
	if description == "" {
		description = "Veresiye tahsilatı"
	}

	txResult, err := s.ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID:  input.CustomerID,
		Type:        enum.CreditTypePayment,
		Amount:      input.Amount,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	result := &CollectPaymentResult{
		Transaction: txResult.Transaction,
		Surplus:     money.ToLira(txResult.Surplus),
	}

	if input.Method.CashEquivalent() {
		linked, err := s.depositIfSessionOpen(ctx, input.Amount, "Veresiye tahsilatı — "+customer.Name, nil)
		if err != nil {
			// The ledger write already stands; surface the gap instead of
			// presenting a false success.
			log.Printf("INTEGRITY: payment %s recorded but drawer write failed: %v", txResult.Transaction.ID, err)
			return nil, apperror.NewIntegrityError("Ödeme deftere işlendi ancak kasa hareketi yazılamadı")
		}
		result.CashLinked = linked
	}

	return result, nil
}

// chargeTerminal runs one connect/processPayment/disconnect cycle. Calls are
// serialized and Disconnect runs on every exit path after a successful
// Connect.
func (s *SettlementService) chargeTerminal(amount int64) error {
	s.terminalMu.Lock()
	defer s.terminalMu.Unlock()

	if err := s.terminal.Connect(s.device); err != nil {
		return apperror.NewTerminalError("Terminal bağlantısı kurulamadı: " + err.Error())
	}
	defer s.terminal.Disconnect()

	res, err := s.terminal.ProcessPayment(amount)
	if err != nil {
		return apperror.NewTerminalError("Terminal ödemesi başarısız: " + err.Error())
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Terminal ödemeyi reddetti"
		}
		return apperror.NewTerminalError(msg)
	}
	return nil
}

// depositIfSessionOpen books a drawer deposit when the register is open.
// Returns false without error when it is closed.
func (s *SettlementService) depositIfSessionOpen(ctx context.Context, amount int64, description string, saleID *uuid.UUID) (bool, error) {
	session, err := s.cash.GetOpenSession(ctx)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	_, err = s.cash.AddCashTransaction(ctx, &AddCashTransactionInput{
		SessionID:     session.ID,
		Type:          enum.CashFlowDeposit,
		Amount:        amount,
		Description:   description,
		RelatedSaleID: saleID,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func saleIDOrNew(id *uuid.UUID) uuid.UUID {
	if id != nil && *id != uuid.Nil {
		return *id
	}
	return uuid.New()
}
