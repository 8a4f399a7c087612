package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type clientRepositoryImpl struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) client.ClientRepository {
	return &clientRepositoryImpl{db: db}
}

const clientColumns = `id, first_name, last_name, phone, email, is_deleted, created_at, updated_at`

func scanClient(row pgx.Row) (client.Client, error) {
	var c client.Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create implements client.ClientRepository.
func (r *clientRepositoryImpl) Create(ctx context.Context, newClient client.Client) (client.Client, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return client.Client{}, err
	}

	query := `
		INSERT INTO clients (id, first_name, last_name, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + clientColumns

	created, err := scanClient(q.QueryRow(ctx, query, id, newClient.FirstName, newClient.LastName, newClient.Phone, newClient.Email))
	if err != nil {
		return client.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	return created, nil
}

// GetByID implements client.ClientRepository.
func (r *clientRepositoryImpl) GetByID(ctx context.Context, id string) (client.Client, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND ` + notDeleted("")

	c, err := scanClient(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return client.Client{}, client.ErrClientNotFound
		}
		return client.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// List implements client.ClientRepository.
func (r *clientRepositoryImpl) List(ctx context.Context, filter client.ClientFilter) ([]client.Client, int64, error) {
	q := GetQuerier(ctx, r.db)

	page, limit := pagination.Normalize(filter.Page, filter.Limit)

	whereClauses := []string{notDeleted("c")}
	args := []interface{}{}
	argIdx := 1

	if s := strings.TrimSpace(filter.Search); s != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR c.phone ILIKE $%d OR c.email ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, containsPattern(s))
		argIdx++
	}

	where := "WHERE " + strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM clients c " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT c.id, c.first_name, c.last_name, c.phone, c.email, c.is_deleted, c.created_at, c.updated_at
		FROM clients c
		%s
		ORDER BY c.last_name, c.first_name
		LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]client.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, total, nil
}

// Update implements client.ClientRepository.
func (r *clientRepositoryImpl) Update(ctx context.Context, req client.UpdateClientRequest) error {
	q := GetQuerier(ctx, r.db)

	var set setBuilder
	if req.FirstName != nil {
		set.add("first_name", strings.TrimSpace(*req.FirstName))
	}
	if req.LastName != nil {
		set.add("last_name", strings.TrimSpace(*req.LastName))
	}
	if req.Phone != nil {
		set.add("phone", strings.TrimSpace(*req.Phone))
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			set.add("email", nil)
		} else {
			set.add("email", strings.TrimSpace(*req.Email))
		}
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", nowUTC())

	clause, idx := set.build()
	sql := fmt.Sprintf("UPDATE clients SET %s WHERE id = $%d AND %s", clause, idx, notDeleted(""))

	tag, err := q.Exec(ctx, sql, append(set.args, req.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update client with id %s: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

// SoftDelete implements client.ClientRepository.
func (r *clientRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE clients SET is_deleted = true, updated_at = NOW() WHERE id = $1 AND ` + notDeleted("")

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrClientNotFound
	}
	return nil
}
