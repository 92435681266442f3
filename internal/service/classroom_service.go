package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"studyhall/internal/entity"
	"studyhall/internal/permission"
	"studyhall/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed roles created with every classroom. The creator is granted the
// Admin role only.
var seedRoles = []struct {
	Name        string
	Permissions *big.Int
}{
	{"Admin", permission.Union(
		permission.Owner,
		permission.ManageRoles,
		permission.UpdateClassroom,
		permission.DeleteClassroom,
		permission.InviteMembers,
		permission.RemoveMembers,
		permission.PostAnnouncements,
		permission.ManageMaterials,
		permission.ViewMaterials,
	)},
	{"Teacher", permission.Union(
		permission.InviteMembers,
		permission.PostAnnouncements,
		permission.ManageMaterials,
		permission.ViewMaterials,
	)},
	{"Student", permission.Union(
		permission.SubmitAssignments,
		permission.ViewMaterials,
	)},
	{"Class Rep", permission.Union(
		permission.PostAnnouncements,
		permission.SubmitAssignments,
		permission.ViewMaterials,
	)},
}

type ClassroomService struct {
	classrooms  repository.ClassroomRepository
	roles       repository.RoleRepository
	memberships repository.MembershipRepository
	auditLogs   repository.AuditLogRepository
}

func NewClassroomService(
	classrooms repository.ClassroomRepository,
	roles repository.RoleRepository,
	memberships repository.MembershipRepository,
	auditLogs repository.AuditLogRepository,
) *ClassroomService {
	return &ClassroomService{
		classrooms:  classrooms,
		roles:       roles,
		memberships: memberships,
		auditLogs:   auditLogs,
	}
}

// Create seeds a classroom with its four roles and the creator's Admin
// membership. The five writes are atomic from the caller's view: any
// failure deletes everything written so far before surfacing.
func (s *ClassroomService) Create(ctx context.Context, creatorID uuid.UUID, name string) (*entity.Classroom, error) {
	existing, err := s.classrooms.FindByName(ctx, name)
	if err != nil {
		return nil, wrapDB(err)
	}
	if existing != nil {
		return nil, ErrClassroomNameAlreadyExists
	}

	classroom := &entity.Classroom{
		ID:        uuid.New(),
		Name:      name,
		CreatorID: creatorID,
	}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClassroomNameAlreadyExists
		}
		return nil, wrapDB(err)
	}

	var created []uuid.UUID
	rollback := func() {
		for _, roleID := range created {
			_ = s.roles.Delete(ctx, roleID)
		}
		_ = s.classrooms.Delete(ctx, classroom.ID)
	}

	var adminRoleID uuid.UUID
	for _, seed := range seedRoles {
		role := &entity.Role{
			ID:          uuid.New(),
			ClassroomID: classroom.ID,
			Name:        seed.Name,
		}
		role.SetPermissionWords(permission.Decode(seed.Permissions))
		if err := s.roles.Create(ctx, role); err != nil {
			rollback()
			return nil, wrapDB(err)
		}
		created = append(created, role.ID)
		if seed.Name == "Admin" {
			adminRoleID = role.ID
		}
	}

	roleIDs, err := json.Marshal([]string{adminRoleID.String()})
	if err != nil {
		rollback()
		return nil, err
	}
	membership := &entity.Membership{
		ID:          uuid.New(),
		UserID:      creatorID,
		ClassroomID: classroom.ID,
		RoleIDs:     datatypes.JSON(roleIDs),
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		rollback()
		return nil, wrapDB(err)
	}

	s.auditClassroom(ctx, creatorID, classroom)
	return classroom, nil
}

// PermissionCheck authorizes one protected operation: load the user's
// membership, union the permission sets of its roles and test against
// the required permission. Evaluated fresh per call, never cached.
func (s *ClassroomService) PermissionCheck(ctx context.Context, classroomID, userID uuid.UUID, required *big.Int) error {
	membership, err := s.memberships.Find(ctx, classroomID, userID)
	if err != nil {
		return wrapDB(err)
	}
	if membership == nil {
		return ErrNotAMember
	}

	roleIDs, err := decodeRoleIDs(membership.RoleIDs)
	if err != nil {
		return err
	}
	roles, err := s.roles.FindByIDs(ctx, roleIDs)
	if err != nil {
		return wrapDB(err)
	}

	granted := new(big.Int)
	for i := range roles {
		granted.Or(granted, permission.Encode(roles[i].PermissionWords()))
	}
	if !permission.Has(granted, required) {
		return ErrInsufficientPermission
	}
	return nil
}

// Rename changes the classroom name, keeping names unique.
func (s *ClassroomService) Rename(ctx context.Context, classroomID uuid.UUID, name string) (*entity.Classroom, error) {
	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if classroom == nil {
		return nil, ErrClassroomNotFound
	}
	taken, err := s.classrooms.FindByName(ctx, name)
	if err != nil {
		return nil, wrapDB(err)
	}
	if taken != nil && taken.ID != classroomID {
		return nil, ErrClassroomNameAlreadyExists
	}
	classroom.Name = name
	if err := s.classrooms.Update(ctx, classroom); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClassroomNameAlreadyExists
		}
		return nil, wrapDB(err)
	}
	return classroom, nil
}

func (s *ClassroomService) auditClassroom(ctx context.Context, creatorID uuid.UUID, classroom *entity.Classroom) {
	if s.auditLogs == nil {
		return
	}
	metadata, err := json.Marshal(map[string]any{"classroom_id": classroom.ID, "name": classroom.Name})
	if err != nil {
		return
	}
	_ = s.auditLogs.Log(ctx, &entity.AuditLog{
		UserID:   &creatorID,
		Action:   entity.AuditClassroomCreated,
		Metadata: datatypes.JSON(metadata),
	})
}

func decodeRoleIDs(raw datatypes.JSON) ([]uuid.UUID, error) {
	var encoded []string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(encoded))
	for _, value := range encoded {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
