// Package memory provides in-memory implementations of the domain
// repositories. They back the service tests, which exercise the ledger,
// cash and settlement logic without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	domainRepo "github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/google/uuid"
)

// Store holds all records behind a single lock, mirroring the
// single-writer model of the register.
type Store struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]entity.Customer
	creditTxs map[uuid.UUID]entity.CreditTransaction
	sessions  map[uuid.UUID]entity.CashSession
	cashTxs   map[uuid.UUID]entity.CashTransaction
	users     map[uuid.UUID]entity.User

	// FailNextCashCreate makes the next cash transaction Create return the
	// given error. Tests use it to provoke a partially failed settlement.
	FailNextCashCreate error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		customers: make(map[uuid.UUID]entity.Customer),
		creditTxs: make(map[uuid.UUID]entity.CreditTransaction),
		sessions:  make(map[uuid.UUID]entity.CashSession),
		cashTxs:   make(map[uuid.UUID]entity.CashTransaction),
		users:     make(map[uuid.UUID]entity.User),
	}
}

// Customers returns the customer repository view of the store.
func (s *Store) Customers() domainRepo.CustomerRepository { return &customerRepo{s} }

// CreditTransactions returns the ledger entry repository view of the store.
func (s *Store) CreditTransactions() domainRepo.CreditTransactionRepository {
	return &creditTxRepo{s}
}

// CashSessions returns the cash session repository view of the store.
func (s *Store) CashSessions() domainRepo.CashSessionRepository { return &sessionRepo{s} }

// CashTransactions returns the drawer movement repository view of the store.
func (s *Store) CashTransactions() domainRepo.CashTransactionRepository { return &cashTxRepo{s} }

// Users returns the user repository view of the store.
func (s *Store) Users() domainRepo.UserRepository { return &userRepo{s} }

// --- customers ---

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

func (r *customerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Customer
	for _, c := range r.s.customers {
		if search != "" {
			phone := ""
			if c.Phone != nil {
				phone = *c.Phone
			}
			if !containsFold(c.Name, search) && !containsFold(phone, search) {
				continue
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, params)
}

func (r *customerRepo) ListIndebted(ctx context.Context, params *pagination.PaginationParams) ([]entity.Customer, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Customer
	for _, c := range r.s.customers {
		if c.CurrentDebt > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentDebt > out[j].CurrentDebt })
	return paginate(out, params)
}

// --- credit transactions ---

type creditTxRepo struct{ s *Store }

func (r *creditTxRepo) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.s.creditTxs[tx.ID] = *tx
	return nil
}

func (r *creditTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tx, ok := r.s.creditTxs[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *creditTxRepo) Update(ctx context.Context, tx *entity.CreditTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.creditTxs[tx.ID] = *tx
	return nil
}

func (r *creditTxRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.CreditTransaction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CreditTransaction
	for _, tx := range r.s.creditTxs {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, params)
}

func (r *creditTxRepo) ListOutstandingDebts(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CreditTransaction
	for _, tx := range r.s.creditTxs {
		if tx.CustomerID == customerID && tx.Type == enum.CreditTypeDebt && tx.Status.Outstanding() {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *creditTxRepo) ListOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CreditTransaction
	for _, tx := range r.s.creditTxs {
		if tx.CustomerID == customerID && tx.Status.Outstanding() {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *creditTxRepo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]entity.CreditTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CreditTransaction
	for _, tx := range r.s.creditTxs {
		if tx.Type == enum.CreditTypeDebt && tx.Status == enum.CreditStatusActive &&
			tx.DueDate != nil && tx.DueDate.Before(cutoff) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// --- cash sessions ---

type sessionRepo struct{ s *Store }

func (r *sessionRepo) Create(ctx context.Context, session *entity.CashSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepo) GetOpenSession(ctx context.Context) (*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, session := range r.s.sessions {
		if session.Status == enum.SessionStatusOpen {
			s := session
			return &s, nil
		}
	}
	return nil, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *entity.CashSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *sessionRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashSession, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CashSession
	for _, session := range r.s.sessions {
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpeningDate.After(out[j].OpeningDate) })
	return paginate(out, params)
}

// --- cash transactions ---

type cashTxRepo struct{ s *Store }

func (r *cashTxRepo) Create(ctx context.Context, tx *entity.CashTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailNextCashCreate; err != nil {
		r.s.FailNextCashCreate = nil
		return err
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.s.cashTxs[tx.ID] = *tx
	return nil
}

func (r *cashTxRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CashTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CashTransaction
	for _, tx := range r.s.cashTxs {
		if tx.SessionID == sessionID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// --- users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.User
	for _, u := range r.s.users {
		if search != "" && !containsFold(u.FirstName, search) &&
			!containsFold(u.LastName, search) && !containsFold(u.Email, search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return paginate(out, params)
}

// --- helpers ---

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func paginate[T any](items []T, params *pagination.PaginationParams) ([]T, int64, error) {
	total := int64(len(items))
	params.Validate()
	start := params.Offset()
	if start >= len(items) {
		return nil, total, nil
	}
	end := start + params.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total, nil
}
