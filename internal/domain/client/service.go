package client

import "context"

type ClientService interface {
	Create(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	Get(ctx context.Context, id string) (ClientResponse, error)
	List(ctx context.Context, filter ClientFilter) (ListClientResponse, error)
	Update(ctx context.Context, req UpdateClientRequest) (ClientResponse, error)
	Delete(ctx context.Context, id string) error
}
