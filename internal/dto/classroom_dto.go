package dto

import (
	"time"

	"studyhall/internal/entity"
)

type ClassroomCreateRequest struct {
	Name string `json:"name" validate:"required,min=3,max=255"`
}

type ClassroomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

func ClassroomResponseFromEntity(classroom *entity.Classroom) ClassroomResponse {
	return ClassroomResponse{
		ID:        classroom.ID.String(),
		Name:      classroom.Name,
		CreatorID: classroom.CreatorID.String(),
		CreatedAt: classroom.CreatedAt,
	}
}

type PermissionCheckResponse struct {
	Allowed bool `json:"allowed"`
}
