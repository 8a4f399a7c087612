package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
)

type ClientServiceImpl struct {
	clientRepo client.ClientRepository
}

func NewClientService(clientRepo client.ClientRepository) client.ClientService {
	return &ClientServiceImpl{clientRepo: clientRepo}
}

// Create implements client.ClientService.
func (s *ClientServiceImpl) Create(ctx context.Context, req client.CreateClientRequest) (client.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return client.ClientResponse{}, err
	}

	created, err := s.clientRepo.Create(ctx, client.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return client.ClientResponse{}, fmt.Errorf("failed to create client: %w", err)
	}

	slog.InfoContext(ctx, "client created", "client_id", created.ID)
	return client.ToResponse(created), nil
}

// Get implements client.ClientService.
func (s *ClientServiceImpl) Get(ctx context.Context, id string) (client.ClientResponse, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return client.ClientResponse{}, err
	}
	return client.ToResponse(c), nil
}

// List implements client.ClientService.
func (s *ClientServiceImpl) List(ctx context.Context, filter client.ClientFilter) (client.ListClientResponse, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	clients, total, err := s.clientRepo.List(ctx, filter)
	if err != nil {
		return client.ListClientResponse{}, err
	}

	resp := client.ListClientResponse{
		Clients:    make([]client.ClientResponse, 0, len(clients)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, c := range clients {
		resp.Clients = append(resp.Clients, client.ToResponse(c))
	}
	return resp, nil
}

// Update implements client.ClientService.
func (s *ClientServiceImpl) Update(ctx context.Context, req client.UpdateClientRequest) (client.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return client.ClientResponse{}, err
	}

	if err := s.clientRepo.Update(ctx, req); err != nil {
		return client.ClientResponse{}, err
	}
	return s.Get(ctx, req.ID)
}

// Delete implements client.ClientService. Existing sales keep pointing at the
// soft-deleted client.
func (s *ClientServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.clientRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	slog.InfoContext(ctx, "client deleted", "client_id", id)
	return nil
}
