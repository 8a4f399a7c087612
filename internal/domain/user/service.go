package user

import "context"

type UserService interface {
	List(ctx context.Context) ([]UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	UpdateRole(ctx context.Context, actorID string, req UpdateUserRoleRequest) (UserResponse, error)
	Deactivate(ctx context.Context, actorID string, id string) error
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (UserResponse, error)
}
