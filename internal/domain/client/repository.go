package client

import "context"

// ClientRepository never returns soft-deleted clients.
type ClientRepository interface {
	Create(ctx context.Context, newClient Client) (Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	List(ctx context.Context, filter ClientFilter) ([]Client, int64, error)
	Update(ctx context.Context, req UpdateClientRequest) error
	SoftDelete(ctx context.Context, id string) error
}
