package services

import (
	"context"
	"sync"
	"time"

	"crmhub/internal/authz"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

var (
	sales   = Actor{UserID: "u-sales", RoleID: authz.RoleSales, SessionID: "s-1"}
	manager = Actor{UserID: "u-mgr", RoleID: authz.RoleManagement, SessionID: "s-2"}
	auditor = Actor{UserID: "u-audit", RoleID: authz.RoleAudit, SessionID: "s-3"}
)

type mockDealRepo struct {
	mu            sync.Mutex
	createFn      func(ctx context.Context, d *models.Deal) error
	getByIDFn     func(ctx context.Context, id string) (*models.Deal, error)
	listFn        func(ctx context.Context, ownerID string) ([]*models.Deal, error)
	updateFn      func(ctx context.Context, d *models.Deal) error
	updateStageFn func(ctx context.Context, id string, stage models.Stage) error
	deleteFn      func(ctx context.Context, id string) error

	stageUpdates []stageUpdate
	deleted      []string
}

type stageUpdate struct {
	ID    string
	Stage models.Stage
}

func (m *mockDealRepo) Create(ctx context.Context, d *models.Deal) error {
	if m.createFn != nil {
		return m.createFn(ctx, d)
	}
	return nil
}

func (m *mockDealRepo) GetByID(ctx context.Context, id string) (*models.Deal, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockDealRepo) List(ctx context.Context, ownerID string) ([]*models.Deal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockDealRepo) Update(ctx context.Context, d *models.Deal) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, d)
	}
	return nil
}

func (m *mockDealRepo) UpdateStage(ctx context.Context, id string, stage models.Stage) error {
	m.mu.Lock()
	m.stageUpdates = append(m.stageUpdates, stageUpdate{ID: id, Stage: stage})
	m.mu.Unlock()
	if m.updateStageFn != nil {
		return m.updateStageFn(ctx, id, stage)
	}
	return nil
}

func (m *mockDealRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// dealsByID serves GetByID and List from a fixed set of deals.
func dealsByID(deals ...*models.Deal) *mockDealRepo {
	byID := map[string]*models.Deal{}
	for _, d := range deals {
		byID[d.ID] = d
	}
	return &mockDealRepo{
		getByIDFn: func(_ context.Context, id string) (*models.Deal, error) {
			d, ok := byID[id]
			if !ok {
				return nil, repositories.ErrNotFound
			}
			cp := *d
			return &cp, nil
		},
		listFn: func(_ context.Context, ownerID string) ([]*models.Deal, error) {
			var out []*models.Deal
			for _, d := range deals {
				if ownerID == "" || d.OwnerID == ownerID {
					cp := *d
					out = append(out, &cp)
				}
			}
			return out, nil
		},
	}
}

type mockLeadRepo struct {
	createFn       func(ctx context.Context, l *models.Lead) error
	getByIDFn      func(ctx context.Context, id string) (*models.Lead, error)
	listFn         func(ctx context.Context, ownerID string) ([]*models.Lead, error)
	updateFn       func(ctx context.Context, l *models.Lead) error
	updateStatusFn func(ctx context.Context, id string, status models.LeadStatus) error
	updateOwnerFn  func(ctx context.Context, id, owner string) error
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockLeadRepo) Create(ctx context.Context, l *models.Lead) error {
	if m.createFn != nil {
		return m.createFn(ctx, l)
	}
	return nil
}

func (m *mockLeadRepo) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockLeadRepo) List(ctx context.Context, ownerID string) ([]*models.Lead, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockLeadRepo) Update(ctx context.Context, l *models.Lead) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, l)
	}
	return nil
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockLeadRepo) UpdateOwner(ctx context.Context, id, owner string) error {
	if m.updateOwnerFn != nil {
		return m.updateOwnerFn(ctx, id, owner)
	}
	return nil
}

func (m *mockLeadRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockContactRepo struct {
	createFn  func(ctx context.Context, c *models.Contact) error
	getByIDFn func(ctx context.Context, id string) (*models.Contact, error)
	listFn    func(ctx context.Context, ownerID string) ([]*models.Contact, error)
	updateFn  func(ctx context.Context, c *models.Contact) error
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockContactRepo) Create(ctx context.Context, c *models.Contact) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockContactRepo) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockContactRepo) List(ctx context.Context, ownerID string) ([]*models.Contact, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockContactRepo) Update(ctx context.Context, c *models.Contact) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

func (m *mockContactRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockUserRepo struct {
	createFn         func(ctx context.Context, u *models.User) error
	getByIDFn        func(ctx context.Context, id string) (*models.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*models.User, error)
	updatePasswordFn func(ctx context.Context, id, hash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, hash)
	}
	return nil
}

func (m *mockUserRepo) List(context.Context, int, int) ([]*models.User, error) {
	return nil, nil
}

type mockSessionRepo struct {
	createFn       func(ctx context.Context, s *models.Session) error
	getByIDFn      func(ctx context.Context, id string) (*models.Session, error)
	getByTokenFn   func(ctx context.Context, token string, now time.Time) (*models.Session, error)
	listActiveFn   func(ctx context.Context, userID string, now time.Time) ([]*models.Session, error)
	touchFn        func(ctx context.Context, id string, at time.Time) error
	rotateFn       func(ctx context.Context, id, oldToken, token string, expiresAt time.Time) error
	revokeFn       func(ctx context.Context, id, userID string, at time.Time) error
	revokeOthersFn func(ctx context.Context, userID, keepID string, at time.Time) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, s *models.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token, now)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSessionRepo) ListActive(ctx context.Context, userID string, now time.Time) ([]*models.Session, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, userID, now)
	}
	return nil, nil
}

func (m *mockSessionRepo) Touch(ctx context.Context, id string, at time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id, at)
	}
	return nil
}

func (m *mockSessionRepo) Rotate(ctx context.Context, id, oldToken, token string, expiresAt time.Time) error {
	if m.rotateFn != nil {
		return m.rotateFn(ctx, id, oldToken, token, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) Revoke(ctx context.Context, id, userID string, at time.Time) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id, userID, at)
	}
	return nil
}

func (m *mockSessionRepo) RevokeOthers(ctx context.Context, userID, keepID string, at time.Time) (int64, error) {
	if m.revokeOthersFn != nil {
		return m.revokeOthersFn(ctx, userID, keepID, at)
	}
	return 0, nil
}

// recordingAudit keeps every inserted entry.
type recordingAudit struct {
	mu      sync.Mutex
	entries []*models.AuditEntry
}

func (r *recordingAudit) Insert(_ context.Context, e *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingAudit) List(context.Context, models.AuditFilter) ([]*models.AuditEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, len(r.entries), nil
}

func (r *recordingAudit) last() *models.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[len(r.entries)-1]
}

type mockColumnRepo struct {
	saved map[models.View][]models.Column
}

func (m *mockColumnRepo) Get(_ context.Context, _ string, view models.View) ([]models.Column, error) {
	return m.saved[view], nil
}

func (m *mockColumnRepo) Save(_ context.Context, _ string, view models.View, cols []models.Column) error {
	if m.saved == nil {
		m.saved = map[models.View][]models.Column{}
	}
	m.saved[view] = cols
	return nil
}

func (m *mockColumnRepo) Delete(_ context.Context, _ string, view models.View) error {
	delete(m.saved, view)
	return nil
}

type mockNotifier struct {
	mu     sync.Mutex
	closed []string
}

func (m *mockNotifier) DealClosed(_ context.Context, d *models.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = append(m.closed, d.ID+":"+string(d.Stage))
	return nil
}

type mockEmail struct {
	sentTo []string
}

func (m *mockEmail) SendPasswordChanged(email, _ string, _ time.Time) error {
	m.sentTo = append(m.sentTo, email)
	return nil
}
