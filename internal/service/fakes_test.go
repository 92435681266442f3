package service_test

import (
	"context"
	"sync"
	"time"

	"studyhall/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// The base is wall-clock now because decoded JWTs are expiry-checked
// against real time; only relative advances matter to the tests.
func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Now()}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSender struct {
	lastDestination string
	lastCode        string
	sent            int
}

func (s *fakeSender) SendCode(ctx context.Context, destination, code string) error {
	s.lastDestination = destination
	s.lastCode = code
	s.sent++
	return nil
}

type memoryUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := m.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, nil
}

func (m *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	for _, user := range m.users {
		if user.Email == email || user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AccountStatus) error {
	if user, ok := m.users[id]; ok {
		user.Status = status
	}
	return nil
}

func (m *memoryUserRepo) Update(ctx context.Context, user *entity.User) error {
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

type memoryCodeRepo struct {
	records map[uuid.UUID]*entity.VerificationCode
	clock   *fixedClock
}

func newMemoryCodeRepo(clock *fixedClock) *memoryCodeRepo {
	return &memoryCodeRepo{records: make(map[uuid.UUID]*entity.VerificationCode), clock: clock}
}

func (m *memoryCodeRepo) Replace(ctx context.Context, record *entity.VerificationCode) error {
	clone := *record
	m.records[record.UserID] = &clone
	return nil
}

func (m *memoryCodeRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.VerificationCode, error) {
	record, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	if !record.ExpiresAt.After(m.clock.Now()) {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (m *memoryCodeRepo) UpdateTries(ctx context.Context, id uuid.UUID, tries int) error {
	for _, record := range m.records {
		if record.ID == id {
			record.Tries = tries
		}
	}
	return nil
}

func (m *memoryCodeRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	delete(m.records, userID)
	return nil
}

func (m *memoryCodeRepo) DeleteExpired(ctx context.Context) error {
	for userID, record := range m.records {
		if !record.ExpiresAt.After(m.clock.Now()) {
			delete(m.records, userID)
		}
	}
	return nil
}

type refreshKey struct {
	userID  uuid.UUID
	tokenID uuid.UUID
}

type memoryRefreshRepo struct {
	tokens       map[refreshKey]*entity.RefreshToken
	failuresLeft int
}

func newMemoryRefreshRepo() *memoryRefreshRepo {
	return &memoryRefreshRepo{tokens: make(map[refreshKey]*entity.RefreshToken)}
}

func (m *memoryRefreshRepo) Create(ctx context.Context, token *entity.RefreshToken) error {
	if m.failuresLeft > 0 {
		m.failuresLeft--
		return gorm.ErrInvalidDB
	}
	clone := *token
	m.tokens[refreshKey{token.UserID, token.ID}] = &clone
	return nil
}

func (m *memoryRefreshRepo) Find(ctx context.Context, userID, tokenID uuid.UUID) (*entity.RefreshToken, error) {
	if token, ok := m.tokens[refreshKey{userID, tokenID}]; ok {
		clone := *token
		return &clone, nil
	}
	return nil, nil
}

func (m *memoryRefreshRepo) Delete(ctx context.Context, userID, tokenID uuid.UUID) error {
	delete(m.tokens, refreshKey{userID, tokenID})
	return nil
}

func (m *memoryRefreshRepo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	for key := range m.tokens {
		if key.userID == userID {
			delete(m.tokens, key)
		}
	}
	return nil
}

func (m *memoryRefreshRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

type memoryProfileRepo struct {
	peeks      map[uuid.UUID]*entity.ProfilePeek
	details    map[uuid.UUID]*entity.ProfileDetail
	failDetail bool
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{
		peeks:   make(map[uuid.UUID]*entity.ProfilePeek),
		details: make(map[uuid.UUID]*entity.ProfileDetail),
	}
}

func (m *memoryProfileRepo) CreatePeek(ctx context.Context, peek *entity.ProfilePeek) error {
	clone := *peek
	m.peeks[peek.UserID] = &clone
	return nil
}

func (m *memoryProfileRepo) CreateDetail(ctx context.Context, detail *entity.ProfileDetail) error {
	if m.failDetail {
		return gorm.ErrInvalidDB
	}
	clone := *detail
	m.details[detail.UserID] = &clone
	return nil
}

func (m *memoryProfileRepo) FindPeekByUser(ctx context.Context, userID uuid.UUID) (*entity.ProfilePeek, error) {
	if peek, ok := m.peeks[userID]; ok {
		clone := *peek
		return &clone, nil
	}
	return nil, nil
}

func (m *memoryProfileRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	delete(m.peeks, userID)
	delete(m.details, userID)
	return nil
}

type memoryAuditRepo struct {
	entries []entity.AuditLog
}

func (m *memoryAuditRepo) Log(ctx context.Context, record *entity.AuditLog) error {
	m.entries = append(m.entries, *record)
	return nil
}

type memoryMFARepo struct {
	factors map[uuid.UUID]*entity.MFAFactor
}

func newMemoryMFARepo() *memoryMFARepo {
	return &memoryMFARepo{factors: make(map[uuid.UUID]*entity.MFAFactor)}
}

func (m *memoryMFARepo) Create(ctx context.Context, factor *entity.MFAFactor) error {
	clone := *factor
	m.factors[factor.ID] = &clone
	return nil
}

func (m *memoryMFARepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.MFAFactor, error) {
	if factor, ok := m.factors[id]; ok {
		clone := *factor
		return &clone, nil
	}
	return nil, nil
}

func (m *memoryMFARepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]entity.MFAFactor, error) {
	var factors []entity.MFAFactor
	for _, factor := range m.factors {
		if factor.UserID == userID {
			factors = append(factors, *factor)
		}
	}
	return factors, nil
}

func (m *memoryMFARepo) FindEnabledByUser(ctx context.Context, userID uuid.UUID) ([]entity.MFAFactor, error) {
	var factors []entity.MFAFactor
	for _, factor := range m.factors {
		if factor.UserID == userID && factor.Enabled {
			factors = append(factors, *factor)
		}
	}
	return factors, nil
}

func (m *memoryMFARepo) Update(ctx context.Context, factor *entity.MFAFactor) error {
	clone := *factor
	m.factors[factor.ID] = &clone
	return nil
}

func (m *memoryMFARepo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	for id, factor := range m.factors {
		if factor.UserID == userID {
			delete(m.factors, id)
		}
	}
	return nil
}

type memoryClassroomRepo struct {
	classrooms map[uuid.UUID]*entity.Classroom
}

func newMemoryClassroomRepo() *memoryClassroomRepo {
	return &memoryClassroomRepo{classrooms: make(map[uuid.UUID]*entity.Classroom)}
}

func (m *memoryClassroomRepo) Create(ctx context.Context, classroom *entity.Classroom) error {
	for _, existing := range m.classrooms {
		if existing.Name == classroom.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *classroom
	m.classrooms[classroom.ID] = &clone
	return nil
}

func (m *memoryClassroomRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Classroom, error) {
	if classroom, ok := m.classrooms[id]; ok {
		clone := *classroom
		return &clone, nil
	}
	return nil, nil
}

func (m *memoryClassroomRepo) FindByName(ctx context.Context, name string) (*entity.Classroom, error) {
	for _, classroom := range m.classrooms {
		if classroom.Name == name {
			clone := *classroom
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memoryClassroomRepo) Update(ctx context.Context, classroom *entity.Classroom) error {
	clone := *classroom
	m.classrooms[classroom.ID] = &clone
	return nil
}

func (m *memoryClassroomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.classrooms, id)
	return nil
}

type memoryRoleRepo struct {
	roles       map[uuid.UUID]*entity.Role
	failAfter   int
	createCount int
}

func newMemoryRoleRepo() *memoryRoleRepo {
	return &memoryRoleRepo{roles: make(map[uuid.UUID]*entity.Role), failAfter: -1}
}

func (m *memoryRoleRepo) Create(ctx context.Context, role *entity.Role) error {
	if m.failAfter >= 0 && m.createCount >= m.failAfter {
		return gorm.ErrInvalidDB
	}
	m.createCount++
	clone := *role
	m.roles[role.ID] = &clone
	return nil
}

func (m *memoryRoleRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Role, error) {
	var roles []entity.Role
	for _, id := range ids {
		if role, ok := m.roles[id]; ok {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (m *memoryRoleRepo) FindByClassroom(ctx context.Context, classroomID uuid.UUID) ([]entity.Role, error) {
	var roles []entity.Role
	for _, role := range m.roles {
		if role.ClassroomID == classroomID {
			roles = append(roles, *role)
		}
	}
	return roles, nil
}

func (m *memoryRoleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.roles, id)
	return nil
}

type memoryMembershipRepo struct {
	memberships map[uuid.UUID]*entity.Membership
	failCreate  bool
}

func newMemoryMembershipRepo() *memoryMembershipRepo {
	return &memoryMembershipRepo{memberships: make(map[uuid.UUID]*entity.Membership)}
}

func (m *memoryMembershipRepo) Create(ctx context.Context, membership *entity.Membership) error {
	if m.failCreate {
		return gorm.ErrInvalidDB
	}
	clone := *membership
	m.memberships[membership.ID] = &clone
	return nil
}

func (m *memoryMembershipRepo) Find(ctx context.Context, classroomID, userID uuid.UUID) (*entity.Membership, error) {
	for _, membership := range m.memberships {
		if membership.ClassroomID == classroomID && membership.UserID == userID {
			clone := *membership
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memoryMembershipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.memberships, id)
	return nil
}
