package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"storehub/internal/entity"
	"storehub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email && user.IsActive {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakePrincipalRepo struct {
	mu         sync.Mutex
	users      *fakeUserRepo
	principals map[entity.Guard][]*entity.Principal
}

func newFakePrincipalRepo(users *fakeUserRepo) *fakePrincipalRepo {
	return &fakePrincipalRepo{
		users:      users,
		principals: make(map[entity.Guard][]*entity.Principal),
	}
}

func (r *fakePrincipalRepo) add(principal *entity.Principal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if principal.ID == uuid.Nil {
		principal.ID = uuid.New()
	}
	r.principals[principal.Guard] = append(r.principals[principal.Guard], principal)
}

func (r *fakePrincipalRepo) FindByEmail(ctx context.Context, guard entity.Guard, email string) (*entity.Principal, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, err
	}
	return r.FindByUserID(ctx, guard, user.ID)
}

func (r *fakePrincipalRepo) FindByID(_ context.Context, guard entity.Guard, id uuid.UUID) (*entity.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, principal := range r.principals[guard] {
		if principal.ID == id {
			copied := *principal
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePrincipalRepo) FindByUserID(_ context.Context, guard entity.Guard, userID uuid.UUID) (*entity.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, principal := range r.principals[guard] {
		if principal.UserID == userID {
			copied := *principal
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePrincipalRepo) List(_ context.Context, guard entity.Guard, limit, offset int) ([]entity.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Principal
	for i, principal := range r.principals[guard] {
		if i < offset {
			continue
		}
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, *principal)
	}
	return result, nil
}

func (r *fakePrincipalRepo) CreateAdmin(_ context.Context, userID uuid.UUID) (*entity.Principal, error) {
	principal := &entity.Principal{UserID: userID, Guard: entity.GuardAdmin}
	r.add(principal)
	return principal, nil
}

func (r *fakePrincipalRepo) CreateStoreOwner(_ context.Context, userID, storeID uuid.UUID) (*entity.Principal, error) {
	principal := &entity.Principal{UserID: userID, Guard: entity.GuardStoreOwner, StoreID: &storeID}
	r.add(principal)
	return principal, nil
}

func (r *fakePrincipalRepo) CreateStoreStaff(_ context.Context, userID, storeID uuid.UUID, permissions []string) (*entity.Principal, error) {
	principal := &entity.Principal{
		UserID:      userID,
		Guard:       entity.GuardStoreStaff,
		StoreID:     &storeID,
		Permissions: permissions,
	}
	r.add(principal)
	return principal, nil
}

func (r *fakePrincipalRepo) UpdateStaffPermissions(_ context.Context, id uuid.UUID, permissions datatypes.JSON) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, principal := range r.principals[entity.GuardStoreStaff] {
		if principal.ID == id {
			var list []string
			_ = json.Unmarshal(permissions, &list)
			principal.Permissions = list
			return nil
		}
	}
	return errors.New("staff not found")
}

func (r *fakePrincipalRepo) Delete(_ context.Context, guard entity.Guard, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.principals[guard]
	for i, principal := range list {
		if principal.ID == id {
			r.principals[guard] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, hash string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.TokenHash == hash && session.RevokedAt == nil && time.Now().Before(session.ExpiresAt) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) RotateToken(_ context.Context, sessionID uuid.UUID, newHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return errors.New("session not found")
	}
	session.TokenHash = newHash
	session.ExpiresAt = expiresAt
	return nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[sessionID]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllByUser(_ context.Context, userID uuid.UUID, guard entity.Guard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, session := range r.sessions {
		if session.UserID == userID && session.Guard == guard {
			session.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanupExpired(_ context.Context) error {
	return nil
}

func (r *fakeSessionRepo) active() []*entity.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Session
	for _, session := range r.sessions {
		if session.RevokedAt == nil {
			copied := *session
			result = append(result, &copied)
		}
	}
	return result
}

type fakeOneTimeCodeRepo struct {
	mu    sync.Mutex
	codes map[uuid.UUID]*entity.OneTimeCode
}

func newFakeOneTimeCodeRepo() *fakeOneTimeCodeRepo {
	return &fakeOneTimeCodeRepo{codes: make(map[uuid.UUID]*entity.OneTimeCode)}
}

func (r *fakeOneTimeCodeRepo) Create(_ context.Context, code *entity.OneTimeCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	copied := *code
	r.codes[code.ID] = &copied
	return nil
}

func (r *fakeOneTimeCodeRepo) FindValid(_ context.Context, userID uuid.UUID, code string) (*entity.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.codes {
		if row.UserID == userID && row.Code == code && time.Now().Before(row.ExpiresAt) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOneTimeCodeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, id)
	return nil
}

func (r *fakeOneTimeCodeRepo) DeleteAllByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.codes {
		if row.UserID == userID {
			delete(r.codes, id)
		}
	}
	return nil
}

func (r *fakeOneTimeCodeRepo) CleanupExpired(_ context.Context) error {
	return nil
}

type fakeSecurityLogRepo struct {
	mu   sync.Mutex
	logs []entity.SecurityLog
}

func (r *fakeSecurityLogRepo) Log(_ context.Context, log *entity.SecurityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeSecurityLogRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]entity.SecurityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.SecurityLog
	for _, log := range r.logs {
		if log.UserID != nil && *log.UserID == userID {
			result = append(result, log)
		}
	}
	return result, nil
}

func (r *fakeSecurityLogRepo) actions() []entity.SecurityAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.SecurityAction
	for _, log := range r.logs {
		result = append(result, log.Action)
	}
	return result
}

type memoryChallengeStore struct {
	mu     sync.Mutex
	states map[string]*ChallengeState
}

func newMemoryChallengeStore() *memoryChallengeStore {
	return &memoryChallengeStore{states: make(map[string]*ChallengeState)}
}

func (s *memoryChallengeStore) Put(_ context.Context, id string, state *ChallengeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	s.states[id] = &copied
	return nil
}

func (s *memoryChallengeStore) Get(_ context.Context, id string) (*ChallengeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[id]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (s *memoryChallengeStore) Consume(_ context.Context, id string) (*ChallengeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[id]
	if !ok {
		return nil, nil
	}
	delete(s.states, id)
	return state, nil
}

type recordedEmail struct {
	To   string
	Code string
}

type fakeEmailSender struct {
	mu     sync.Mutex
	sent   []recordedEmail
	failed bool
}

func (s *fakeEmailSender) SendOTPEmail(_ context.Context, email string, code string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return errors.New("email send failed")
	}
	s.sent = append(s.sent, recordedEmail{To: email, Code: code})
	return nil
}

func (s *fakeEmailSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeSMSSender struct {
	mu     sync.Mutex
	sent   []recordedEmail
	failed bool
}

func (s *fakeSMSSender) SendOTP(_ context.Context, phone string, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return errors.New("sms send failed")
	}
	s.sent = append(s.sent, recordedEmail{To: phone, Code: code})
	return nil
}

func (s *fakeSMSSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeTOTP accepts exactly one code per secret.
type fakeTOTP struct {
	valid string
}

func (t *fakeTOTP) GenerateSecret() (string, error) {
	return "FAKESECRET", nil
}

func (t *fakeTOTP) KeyURL(email string, secret string) (string, error) {
	return "otpauth://totp/test:" + email + "?secret=" + secret, nil
}

func (t *fakeTOTP) ValidateCode(_ string, code string) bool {
	return t.valid != "" && code == t.valid
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, storeID uuid.UUID, sku string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.StoreID == storeID && product.SKU == sku {
			copied := *product
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return errors.New("product not found")
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Product
	for _, product := range r.products {
		if product.StoreID == filter.StoreID {
			result = append(result, *product)
		}
	}
	return result, int64(len(result)), nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	order.Status = status
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Order
	for _, order := range r.orders {
		if order.StoreID == filter.StoreID {
			result = append(result, *order)
		}
	}
	return result, int64(len(result)), nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*entity.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[uuid.UUID]*entity.Store)}
}

func (r *fakeStoreRepo) Create(_ context.Context, store *entity.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	copied := *store
	r.stores[store.ID] = &copied
	return nil
}

func (r *fakeStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[id]
	if !ok {
		return nil, nil
	}
	copied := *store
	return &copied, nil
}

func (r *fakeStoreRepo) FindBySlug(_ context.Context, slug string) (*entity.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, store := range r.stores {
		if store.Slug == slug {
			copied := *store
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeStoreRepo) Update(_ context.Context, store *entity.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[store.ID]; !ok {
		return errors.New("store not found")
	}
	copied := *store
	r.stores[store.ID] = &copied
	return nil
}

func (r *fakeStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, id)
	return nil
}

func (r *fakeStoreRepo) List(_ context.Context, _ repository.StoreFilter) ([]entity.Store, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Store
	for _, store := range r.stores {
		result = append(result, *store)
	}
	return result, int64(len(result)), nil
}
