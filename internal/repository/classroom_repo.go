package repository

import (
	"context"
	"errors"

	"studyhall/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassroomRepository interface {
	Create(ctx context.Context, classroom *entity.Classroom) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Classroom, error)
	FindByName(ctx context.Context, name string) (*entity.Classroom, error)
	Update(ctx context.Context, classroom *entity.Classroom) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Role, error)
	FindByClassroom(ctx context.Context, classroomID uuid.UUID) ([]entity.Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MembershipRepository interface {
	Create(ctx context.Context, membership *entity.Membership) error
	Find(ctx context.Context, classroomID, userID uuid.UUID) (*entity.Membership, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type classroomRepository struct {
	db *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) Create(ctx context.Context, classroom *entity.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Classroom, error) {
	var classroom entity.Classroom
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&classroom).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepository) FindByName(ctx context.Context, name string) (*entity.Classroom, error) {
	var classroom entity.Classroom
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&classroom).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepository) Update(ctx context.Context, classroom *entity.Classroom) error {
	return r.db.WithContext(ctx).Save(classroom).Error
}

func (r *classroomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Classroom{}).
		Error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *entity.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []entity.Role
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) FindByClassroom(ctx context.Context, classroomID uuid.UUID) ([]entity.Role, error) {
	var roles []entity.Role
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Role{}).
		Error
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, membership *entity.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *membershipRepository) Find(ctx context.Context, classroomID, userID uuid.UUID) (*entity.Membership, error) {
	var membership entity.Membership
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Membership{}).
		Error
}
