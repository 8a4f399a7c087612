package user

import (
	"context"
	"testing"

	"github.com/freedomdance/studio-backend/internal/domain/user"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/freedomdance/studio-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Create(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())
	ctx := context.Background()

	resp, err := svc.Create(ctx, user.CreateUserRequest{
		Username:  "front.desk",
		Password:  "password123",
		FirstName: "Maria",
		LastName:  "Ivanova",
	})
	require.NoError(t, err)
	assert.Equal(t, string(user.RoleUser), resp.Role)
	assert.True(t, resp.IsActive)

	stored, err := store.Users().GetByUsername(ctx, "front.desk")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

	_, err = svc.Create(ctx, user.CreateUserRequest{
		Username:  "front.desk",
		Password:  "password123",
		FirstName: "Maria",
		LastName:  "Ivanova",
	})
	assert.ErrorIs(t, err, user.ErrUsernameExists)
}

func TestUserService_Create_Invalid(t *testing.T) {
	svc := NewUserService(memory.NewStore().Users())

	_, err := svc.Create(context.Background(), user.CreateUserRequest{Username: "x", Password: "short", Role: "Root"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.GreaterOrEqual(t, len(verrs), 3)
}

func TestUserService_OwnAccountGuard(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())
	ctx := context.Background()

	admin, err := store.Users().Create(ctx, user.User{Username: "admin", PasswordHash: "x", FirstName: "A", LastName: "B", Role: user.RoleAdmin, IsActive: true})
	require.NoError(t, err)
	staff, err := store.Users().Create(ctx, user.User{Username: "staff", PasswordHash: "x", FirstName: "C", LastName: "D", Role: user.RoleUser, IsActive: true})
	require.NoError(t, err)

	_, err = svc.UpdateRole(ctx, admin.ID, user.UpdateUserRoleRequest{ID: admin.ID, Role: string(user.RoleUser)})
	assert.ErrorIs(t, err, user.ErrCannotChangeOwnAccount)
	assert.ErrorIs(t, svc.Deactivate(ctx, admin.ID, admin.ID), user.ErrCannotChangeOwnAccount)

	promoted, err := svc.UpdateRole(ctx, admin.ID, user.UpdateUserRoleRequest{ID: staff.ID, Role: string(user.RoleInstructor)})
	require.NoError(t, err)
	assert.Equal(t, string(user.RoleInstructor), promoted.Role)

	require.NoError(t, svc.Deactivate(ctx, admin.ID, staff.ID))
	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestUserService_UpdateProfile(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users())
	ctx := context.Background()

	email := "old@studio.test"
	staff, err := store.Users().Create(ctx, user.User{Username: "staff", PasswordHash: "x", FirstName: "C", LastName: "D", Email: &email, Role: user.RoleInstructor, IsActive: true})
	require.NoError(t, err)

	first, phone, blank := " Olga ", "+7 999 123-45-67", ""
	resp, err := svc.UpdateProfile(ctx, user.UpdateProfileRequest{ID: staff.ID, FirstName: &first, Phone: &phone, Email: &blank})
	require.NoError(t, err)

	assert.Equal(t, "Olga", resp.FirstName)
	assert.Equal(t, "D", resp.LastName)
	assert.Nil(t, resp.Email)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, phone, *resp.Phone)
	assert.Equal(t, string(user.RoleInstructor), resp.Role)

	bad := "call me"
	_, err = svc.UpdateProfile(ctx, user.UpdateProfileRequest{ID: staff.ID, Phone: &bad})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "phone")

	_, err = svc.UpdateProfile(ctx, user.UpdateProfileRequest{ID: "missing", FirstName: &first})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
