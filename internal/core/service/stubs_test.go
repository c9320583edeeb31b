package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// stubAccountRepo is an in-memory credential store keyed by email.
type stubAccountRepo struct {
	notFound error
	accounts map[string]*domain.Account
	updates  int
}

func newStubAccountRepo(notFound error, accs ...*domain.Account) *stubAccountRepo {
	r := &stubAccountRepo{notFound: notFound, accounts: make(map[string]*domain.Account)}
	for _, a := range accs {
		clone := *a
		r.accounts[a.Email] = &clone
	}
	return r
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.accounts[email]
	if !ok {
		return nil, r.notFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) FindByIDAndEmail(_ context.Context, id, email string) (*domain.Account, error) {
	a, ok := r.accounts[email]
	if !ok || a.ID != id {
		return nil, r.notFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id, email, hash string) error {
	a, ok := r.accounts[email]
	if !ok || a.ID != id {
		return r.notFound
	}
	a.PasswordHash = hash
	r.updates++
	return nil
}

// stubUserRepo mirrors the document-level cart updates of the Mongo repository.
type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int

	// pushConflictOnce simulates a concurrent writer adding a one-unit line
	// between the caller's read and its push.
	pushConflictOnce bool
	// replaceConflictOnce simulates a concurrent writer adding one unit to the
	// line between the caller's read and its replace.
	replaceConflictOnce bool
	// unitPrice prices the lines written by the simulated concurrent writer.
	unitPrice float64
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	clone.Cart = append([]domain.CartItem(nil), u.Cart...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	stored := *u
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[stored.ID] = &stored
	return cloneUser(&stored), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDAndEmail(_ context.Context, id, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Email != email {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.MobileNumber != nil {
		u.MobileNumber = *p.MobileNumber
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.IsDeleted != nil {
		u.IsDeleted = *p.IsDeleted
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) line(u *domain.User, productID string) int {
	for i, item := range u.Cart {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (r *stubUserRepo) ReplaceCartItem(_ context.Context, userID string, expectedQty int, item domain.CartItem) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	i := r.line(u, item.ProductID)
	if i >= 0 && r.replaceConflictOnce {
		r.replaceConflictOnce = false
		u.Cart[i].Quantity++
		u.Cart[i].TotalPrice = float64(u.Cart[i].Quantity) * r.unitPrice
	}
	if i < 0 || u.Cart[i].Quantity != expectedQty {
		return nil, domain.ErrCartItemChanged
	}
	u.Cart[i].Quantity = item.Quantity
	u.Cart[i].TotalPrice = item.TotalPrice
	return cloneUser(u), nil
}

func (r *stubUserRepo) PushCartItem(_ context.Context, userID string, item domain.CartItem) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.pushConflictOnce {
		r.pushConflictOnce = false
		u.Cart = append(u.Cart, domain.CartItem{ProductID: item.ProductID, Quantity: 1, TotalPrice: r.unitPrice})
		return nil, domain.ErrCartItemExists
	}
	if r.line(u, item.ProductID) >= 0 {
		return nil, domain.ErrCartItemExists
	}
	u.Cart = append(u.Cart, item)
	return cloneUser(u), nil
}

func (r *stubUserRepo) PullCartItem(_ context.Context, userID, productID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if i := r.line(u, productID); i >= 0 {
		u.Cart = append(u.Cart[:i], u.Cart[i+1:]...)
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetCartItem(_ context.Context, userID, productID string, qty int, total float64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	i := r.line(u, productID)
	if i < 0 {
		return nil, domain.ErrCartItemNotFound
	}
	u.Cart[i].Quantity = qty
	u.Cart[i].TotalPrice = total
	return cloneUser(u), nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
	seq      int
	err      error
}

func newStubProductRepo(ps ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range ps {
		clone := *p
		r.products[p.ID] = &clone
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.seq++
	clone := *p
	clone.ID = fmt.Sprintf("product-%d", r.seq)
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			clone := *p
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type stubOrderRepo struct {
	orders     []*domain.Order
	lastFilter ports.ListOrdersFilter
	total      int64
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	clone := *o
	clone.ID = fmt.Sprintf("order-%d", len(r.orders)+1)
	r.orders = append(r.orders, &clone)
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id, customerID string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.ID == id && (customerID == "" || o.CustomerID == customerID) {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	r.lastFilter = f
	var out []*domain.Order
	for _, o := range r.orders {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		out = append(out, o)
	}
	total := int64(len(out))
	if r.total > 0 {
		total = r.total
	}
	return out, total, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			o.Status = status
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) Delete(_ context.Context, id string) error {
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return domain.ErrOrderNotFound
}

type stubCouponRepo struct {
	coupons map[string]*domain.Coupon
	seq     int
}

func newStubCouponRepo() *stubCouponRepo {
	return &stubCouponRepo{coupons: make(map[string]*domain.Coupon)}
}

func (r *stubCouponRepo) Create(_ context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	for _, existing := range r.coupons {
		if existing.Code == c.Code {
			return nil, domain.ErrCouponExists
		}
	}
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("coupon-%d", r.seq)
	r.coupons[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCouponRepo) List(_ context.Context) ([]*domain.Coupon, error) {
	out := make([]*domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCouponRepo) FindByID(_ context.Context, id string) (*domain.Coupon, error) {
	c, ok := r.coupons[id]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCouponRepo) FindByCode(_ context.Context, code string) (*domain.Coupon, error) {
	for _, c := range r.coupons {
		if c.Code == code {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCouponNotFound
}

func (r *stubCouponRepo) Update(_ context.Context, id string, patch domain.CouponPatch) (*domain.Coupon, error) {
	c, ok := r.coupons[id]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	if patch.Code != nil {
		c.Code = *patch.Code
	}
	if patch.Discount != nil {
		c.Discount = *patch.Discount
	}
	if patch.ExpireDate != nil {
		c.ExpireDate = *patch.ExpireDate
	}
	clone := *c
	return &clone, nil
}

func (r *stubCouponRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.coupons[id]; !ok {
		return domain.ErrCouponNotFound
	}
	delete(r.coupons, id)
	return nil
}

type stubThrottle struct {
	counts map[string]int64
	err    error
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{counts: make(map[string]int64)}
}

func (t *stubThrottle) Failures(_ context.Context, key string) (int64, error) {
	if t.err != nil {
		return 0, t.err
	}
	return t.counts[key], nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, key string) error {
	if t.err != nil {
		return t.err
	}
	t.counts[key]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	if t.err != nil {
		return t.err
	}
	delete(t.counts, key)
	return nil
}

type stubAudit struct {
	events []domain.AuthEvent
}

func (a *stubAudit) Enqueue(ev domain.AuthEvent) {
	a.events = append(a.events, ev)
}

var errStoreDown = errors.New("store unavailable")
