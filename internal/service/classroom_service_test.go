package service_test

import (
	"context"
	"testing"

	"studyhall/internal/entity"
	"studyhall/internal/permission"
	"studyhall/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type classroomFixture struct {
	svc         *service.ClassroomService
	classrooms  *memoryClassroomRepo
	roles       *memoryRoleRepo
	memberships *memoryMembershipRepo
	audits      *memoryAuditRepo
}

func newClassroomFixture(t *testing.T) *classroomFixture {
	t.Helper()
	classrooms := newMemoryClassroomRepo()
	roles := newMemoryRoleRepo()
	memberships := newMemoryMembershipRepo()
	audits := &memoryAuditRepo{}
	return &classroomFixture{
		svc:         service.NewClassroomService(classrooms, roles, memberships, audits),
		classrooms:  classrooms,
		roles:       roles,
		memberships: memberships,
		audits:      audits,
	}
}

func (f *classroomFixture) roleByName(t *testing.T, classroomID uuid.UUID, name string) *entity.Role {
	t.Helper()
	roles, err := f.roles.FindByClassroom(context.Background(), classroomID)
	require.NoError(t, err)
	for i := range roles {
		if roles[i].Name == name {
			return &roles[i]
		}
	}
	t.Fatalf("role %q not seeded", name)
	return nil
}

func TestCreateSeedsRolesAndAdminMembership(t *testing.T) {
	f := newClassroomFixture(t)
	creator := uuid.New()

	classroom, err := f.svc.Create(context.Background(), creator, "Algebra 101")
	require.NoError(t, err)
	require.Equal(t, "Algebra 101", classroom.Name)
	require.Equal(t, creator, classroom.CreatorID)

	roles, err := f.roles.FindByClassroom(context.Background(), classroom.ID)
	require.NoError(t, err)
	require.Len(t, roles, 4)
	names := make(map[string]bool)
	for _, role := range roles {
		names[role.Name] = true
	}
	require.Equal(t, map[string]bool{
		"Admin": true, "Teacher": true, "Student": true, "Class Rep": true,
	}, names)

	membership, err := f.memberships.Find(context.Background(), classroom.ID, creator)
	require.NoError(t, err)
	require.NotNil(t, membership)

	admin := f.roleByName(t, classroom.ID, "Admin")
	require.JSONEq(t, `["`+admin.ID.String()+`"]`, string(membership.RoleIDs))

	require.Len(t, f.audits.entries, 1)
	require.Equal(t, entity.AuditClassroomCreated, f.audits.entries[0].Action)
}

func TestCreateDuplicateName(t *testing.T) {
	f := newClassroomFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.ErrorIs(t, err, service.ErrClassroomNameAlreadyExists)
}

func TestCreateRollsBackOnRoleFailure(t *testing.T) {
	f := newClassroomFixture(t)
	f.roles.failAfter = 2

	_, err := f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.ErrorIs(t, err, service.ErrDatabase)

	require.Empty(t, f.classrooms.classrooms)
	require.Empty(t, f.roles.roles)
	require.Empty(t, f.memberships.memberships)
	require.Empty(t, f.audits.entries)
}

func TestCreateRollsBackOnMembershipFailure(t *testing.T) {
	f := newClassroomFixture(t)
	f.memberships.failCreate = true

	_, err := f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.ErrorIs(t, err, service.ErrDatabase)

	require.Empty(t, f.classrooms.classrooms)
	require.Empty(t, f.roles.roles)

	// The name is free again after rollback.
	f.memberships.failCreate = false
	_, err = f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.NoError(t, err)
}

func TestPermissionCheckCreator(t *testing.T) {
	f := newClassroomFixture(t)
	creator := uuid.New()
	classroom, err := f.svc.Create(context.Background(), creator, "Algebra 101")
	require.NoError(t, err)

	require.NoError(t, f.svc.PermissionCheck(context.Background(), classroom.ID, creator, permission.Owner))
	require.NoError(t, f.svc.PermissionCheck(context.Background(), classroom.ID, creator, permission.DeleteClassroom))
}

func TestPermissionCheckNonMember(t *testing.T) {
	f := newClassroomFixture(t)
	classroom, err := f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.NoError(t, err)

	err = f.svc.PermissionCheck(context.Background(), classroom.ID, uuid.New(), permission.ViewMaterials)
	require.ErrorIs(t, err, service.ErrNotAMember)
}

func TestPermissionCheckInsufficient(t *testing.T) {
	f := newClassroomFixture(t)
	classroom, err := f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.NoError(t, err)

	student := f.roleByName(t, classroom.ID, "Student")
	member := uuid.New()
	require.NoError(t, f.memberships.Create(context.Background(), &entity.Membership{
		ID:          uuid.New(),
		UserID:      member,
		ClassroomID: classroom.ID,
		RoleIDs:     []byte(`["` + student.ID.String() + `"]`),
	}))

	require.NoError(t, f.svc.PermissionCheck(context.Background(), classroom.ID, member, permission.ViewMaterials))
	err = f.svc.PermissionCheck(context.Background(), classroom.ID, member, permission.UpdateClassroom)
	require.ErrorIs(t, err, service.ErrInsufficientPermission)
}

func TestPermissionCheckUnionsRoles(t *testing.T) {
	f := newClassroomFixture(t)
	classroom, err := f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.NoError(t, err)

	student := f.roleByName(t, classroom.ID, "Student")
	rep := f.roleByName(t, classroom.ID, "Class Rep")
	member := uuid.New()
	require.NoError(t, f.memberships.Create(context.Background(), &entity.Membership{
		ID:          uuid.New(),
		UserID:      member,
		ClassroomID: classroom.ID,
		RoleIDs:     []byte(`["` + student.ID.String() + `","` + rep.ID.String() + `"]`),
	}))

	required := permission.Union(permission.SubmitAssignments, permission.PostAnnouncements)
	require.NoError(t, f.svc.PermissionCheck(context.Background(), classroom.ID, member, required))
}

func TestRename(t *testing.T) {
	f := newClassroomFixture(t)
	classroom, err := f.svc.Create(context.Background(), uuid.New(), "Algebra 101")
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), uuid.New(), "Biology 201")
	require.NoError(t, err)

	renamed, err := f.svc.Rename(context.Background(), classroom.ID, "Algebra 102")
	require.NoError(t, err)
	require.Equal(t, "Algebra 102", renamed.Name)

	_, err = f.svc.Rename(context.Background(), classroom.ID, "Biology 201")
	require.ErrorIs(t, err, service.ErrClassroomNameAlreadyExists)

	// Renaming to its own current name is a no-op, not a conflict.
	_, err = f.svc.Rename(context.Background(), classroom.ID, "Algebra 102")
	require.NoError(t, err)

	_, err = f.svc.Rename(context.Background(), uuid.New(), "Chemistry 301")
	require.ErrorIs(t, err, service.ErrClassroomNotFound)
}
