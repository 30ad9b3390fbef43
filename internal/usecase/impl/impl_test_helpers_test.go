package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPayload(username string) entity.TokenPayload {
	return entity.TokenPayload{
		TenantID:  uuid.New(),
		AccountID: uuid.New(),
		Username:  username,
	}
}

// --- transaction manager fake ---

// fakeFactory hands out the same in-memory repositories inside and outside
// of transactions; atomicity is not under test here.
type fakeFactory struct {
	accounts   *fakeAccountRepo
	ledger     *fakeLedgerRepo
	workspaces *fakeWorkspaceRepo
}

func (f *fakeFactory) AccountRepo() repository.AccountRepository     { return f.accounts }
func (f *fakeFactory) LedgerRepo() repository.LedgerRepository       { return f.ledger }
func (f *fakeFactory) WorkspaceRepo() repository.WorkspaceRepository { return f.workspaces }

type fakeTxManager struct {
	factory *fakeFactory
	execErr error
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.execErr != nil {
		return m.execErr
	}

	return fn(m.factory)
}

// --- account repository fake ---

type fakeAccountRepo struct {
	accounts      map[uuid.UUID]*entity.Account
	tenants       map[uuid.UUID]*entity.Tenant
	updateHashErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[uuid.UUID]*entity.Account),
		tenants:  make(map[uuid.UUID]*entity.Tenant),
	}
}

func (r *fakeAccountRepo) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			copied := *account

			return &copied, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepo) FindByID(_ context.Context, tenantID, accountID uuid.UUID) (*entity.Account, error) {
	account, ok := r.accounts[accountID]
	if !ok || account.TenantID != tenantID {
		return nil, repository.ErrAccountNotFound
	}
	copied := *account

	return &copied, nil
}

func (r *fakeAccountRepo) ListByTenant(_ context.Context, tenantID uuid.UUID, lastID uuid.UUID, limit int) ([]*entity.Account, error) {
	var result []*entity.Account
	for _, account := range r.accounts {
		if account.TenantID != tenantID {
			continue
		}
		if lastID != uuid.Nil && account.ID.String() <= lastID.String() {
			continue
		}
		copied := *account
		result = append(result, &copied)
	}
	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, account *entity.Account) error {
	for _, existing := range r.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return domainerrors.ErrUserAlreadyExists
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	copied := *account
	r.accounts[account.ID] = &copied

	return nil
}

func (r *fakeAccountRepo) UpdatePasswordHash(_ context.Context, tenantID, accountID uuid.UUID, passwordHash string) error {
	if r.updateHashErr != nil {
		return r.updateHashErr
	}
	account, ok := r.accounts[accountID]
	if !ok || account.TenantID != tenantID {
		return repository.ErrAccountNotFound
	}
	account.PasswordHash = passwordHash

	return nil
}

func (r *fakeAccountRepo) CreateTenant(_ context.Context, tenant *entity.Tenant) error {
	for _, existing := range r.tenants {
		if existing.Name == tenant.Name {
			return domainerrors.ErrConflict
		}
	}
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	tenant.CreatedAt = time.Now()
	copied := *tenant
	r.tenants[tenant.ID] = &copied

	return nil
}

// addAccount seeds an account and returns it.
func (r *fakeAccountRepo) addAccount(tenantID uuid.UUID, username, passwordHash string) *entity.Account {
	account := &entity.Account{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Account " + username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.accounts[account.ID] = account

	return account
}

// --- ledger repository fake ---

type fakeLedgerRepo struct {
	tokens    map[string]struct{}
	insertErr error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{tokens: make(map[string]struct{})}
}

func (r *fakeLedgerRepo) Insert(_ context.Context, token string) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.tokens[token] = struct{}{}

	return nil
}

func (r *fakeLedgerRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	delete(r.tokens, token)

	return nil
}

func (r *fakeLedgerRepo) contains(token string) bool {
	_, ok := r.tokens[token]

	return ok
}

// --- workspace repository fake ---

type fakeWorkspaceRepo struct {
	workspaces map[uuid.UUID]*entity.Workspace
	groups     map[uuid.UUID]*entity.Group
	tasks      map[uuid.UUID]*entity.Task
	accounts   *fakeAccountRepo
}

func newFakeWorkspaceRepo(accounts *fakeAccountRepo) *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{
		workspaces: make(map[uuid.UUID]*entity.Workspace),
		groups:     make(map[uuid.UUID]*entity.Group),
		tasks:      make(map[uuid.UUID]*entity.Task),
		accounts:   accounts,
	}
}

func (r *fakeWorkspaceRepo) ListWorkspaces(_ context.Context, tenantID uuid.UUID, lastID uuid.UUID, limit int) ([]*entity.Workspace, error) {
	var result []*entity.Workspace
	for _, workspace := range r.workspaces {
		if workspace.TenantID != tenantID {
			continue
		}
		if lastID != uuid.Nil && workspace.ID.String() <= lastID.String() {
			continue
		}
		copied := *workspace
		copied.Groups = nil
		result = append(result, &copied)
	}
	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *fakeWorkspaceRepo) CreateWorkspace(_ context.Context, workspace *entity.Workspace) error {
	for _, existing := range r.workspaces {
		if existing.TenantID == workspace.TenantID && existing.Name == workspace.Name {
			return domainerrors.ErrWorkspaceAlreadyExists
		}
	}
	workspace.ID = uuid.New()
	workspace.CreatedAt = time.Now()
	for _, group := range workspace.Groups {
		group.ID = uuid.New()
		group.WorkspaceID = workspace.ID
		group.CreatedAt = workspace.CreatedAt
		copied := *group
		r.groups[group.ID] = &copied
	}
	copied := *workspace
	copied.Groups = nil
	r.workspaces[workspace.ID] = &copied

	return nil
}

func (r *fakeWorkspaceRepo) FindWorkspaceByName(_ context.Context, tenantID uuid.UUID, name string) (*entity.Workspace, error) {
	for _, workspace := range r.workspaces {
		if workspace.TenantID == tenantID && workspace.Name == name {
			copied := *workspace

			return &copied, nil
		}
	}

	return nil, repository.ErrWorkspaceNotFound
}

func (r *fakeWorkspaceRepo) FindWorkspaceByID(_ context.Context, tenantID, workspaceID uuid.UUID) (*entity.Workspace, error) {
	workspace, ok := r.workspaces[workspaceID]
	if !ok || workspace.TenantID != tenantID {
		return nil, repository.ErrWorkspaceNotFound
	}
	copied := *workspace

	return &copied, nil
}

func (r *fakeWorkspaceRepo) ListGroupsWithTasks(ctx context.Context, tenantID, workspaceID uuid.UUID) ([]*entity.Group, error) {
	var result []*entity.Group
	for _, group := range r.groups {
		if group.TenantID != tenantID || group.WorkspaceID != workspaceID {
			continue
		}
		copied := *group
		copied.Tasks = nil
		for _, task := range r.tasks {
			if task.GroupID == group.ID {
				taskCopy := *task
				if taskCopy.AssignedTo != nil {
					if assignee, err := r.accounts.FindByID(ctx, tenantID, *taskCopy.AssignedTo); err == nil {
						taskCopy.Assignee = assignee.FullName
					}
				}
				copied.Tasks = append(copied.Tasks, &taskCopy)
			}
		}
		result = append(result, &copied)
	}

	return result, nil
}

func (r *fakeWorkspaceRepo) FindGroupByID(_ context.Context, tenantID, groupID uuid.UUID) (*entity.Group, error) {
	group, ok := r.groups[groupID]
	if !ok || group.TenantID != tenantID {
		return nil, repository.ErrGroupNotFound
	}
	copied := *group

	return &copied, nil
}

func (r *fakeWorkspaceRepo) UpdateGroup(_ context.Context, group *entity.Group) error {
	stored, ok := r.groups[group.ID]
	if !ok || stored.TenantID != group.TenantID {
		return repository.ErrGroupNotFound
	}
	stored.Name = group.Name
	stored.UpdatedBy = group.UpdatedBy
	stored.UpdatedAt = group.UpdatedAt

	return nil
}

func (r *fakeWorkspaceRepo) CreateTask(_ context.Context, task *entity.Task) error {
	task.ID = uuid.New()
	task.CreatedAt = time.Now()
	copied := *task
	r.tasks[task.ID] = &copied

	return nil
}

func (r *fakeWorkspaceRepo) FindTaskByID(ctx context.Context, tenantID, taskID uuid.UUID) (*entity.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.TenantID != tenantID {
		return nil, repository.ErrTaskNotFound
	}
	copied := *task
	if copied.AssignedTo != nil {
		if assignee, err := r.accounts.FindByID(ctx, tenantID, *copied.AssignedTo); err == nil {
			copied.Assignee = assignee.FullName
		}
	}

	return &copied, nil
}

func (r *fakeWorkspaceRepo) UpdateTask(_ context.Context, task *entity.Task) error {
	stored, ok := r.tasks[task.ID]
	if !ok || stored.TenantID != task.TenantID {
		return repository.ErrTaskNotFound
	}
	copied := *task
	copied.Assignee = ""
	r.tasks[task.ID] = &copied

	return nil
}

func (r *fakeWorkspaceRepo) DeleteTask(_ context.Context, tenantID, taskID uuid.UUID) error {
	task, ok := r.tasks[taskID]
	if !ok || task.TenantID != tenantID {
		return repository.ErrTaskNotFound
	}
	delete(r.tasks, taskID)

	return nil
}

// --- password hasher fake ---

type fakeHasher struct {
	rehash  bool
	hashErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}

	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(encodedHash, password string) error {
	if encodedHash != "hashed:"+password {
		return service.ErrPasswordMismatch
	}

	return nil
}

func (h *fakeHasher) NeedsRehash(string) bool {
	return h.rehash
}

// --- token codec fake ---

type fakeCodec struct {
	issued  map[string]entity.TokenPayload
	counter int
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{issued: make(map[string]entity.TokenPayload)}
}

func (c *fakeCodec) SignAccess(payload entity.TokenPayload) (string, error) {
	c.counter++
	token := fmt.Sprintf("access-%s-%d", payload.Username, c.counter)
	c.issued[token] = payload

	return token, nil
}

func (c *fakeCodec) SignRefresh(payload entity.TokenPayload) (string, error) {
	c.counter++
	token := fmt.Sprintf("refresh-%s-%d", payload.Username, c.counter)
	c.issued[token] = payload

	return token, nil
}

func (c *fakeCodec) VerifyAccess(token string) (*entity.TokenPayload, error) {
	return c.verify(token)
}

func (c *fakeCodec) VerifyRefresh(token string) (*entity.TokenPayload, error) {
	return c.verify(token)
}

func (c *fakeCodec) verify(token string) (*entity.TokenPayload, error) {
	payload, ok := c.issued[token]
	if !ok {
		return nil, domainerrors.ErrTokenInvalid
	}

	return &payload, nil
}

func (c *fakeCodec) RefreshTokenDuration() time.Duration {
	return 30 * 24 * time.Hour
}
