package client

import (
	"context"
	"testing"

	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/freedomdance/studio-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClientService_Lifecycle(t *testing.T) {
	svc := NewClientService(memory.NewStore().Clients())
	ctx := context.Background()

	created, err := svc.Create(ctx, client.CreateClientRequest{FirstName: "Anna", LastName: "Petrova", Phone: "+7 999 000-00-01", Email: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Anna Petrova", created.FullName)
	assert.Nil(t, created.Email)

	updated, err := svc.Update(ctx, client.UpdateClientRequest{ID: created.ID, Email: strPtr("anna@example.com")})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "anna@example.com", *updated.Email)

	list, err := svc.List(ctx, client.ClientFilter{Search: "petr"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, client.ErrClientNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), client.ErrClientNotFound)
}

func TestClientService_Create_Invalid(t *testing.T) {
	svc := NewClientService(memory.NewStore().Clients())

	_, err := svc.Create(context.Background(), client.CreateClientRequest{FirstName: " ", Phone: "abc"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}
