package client

import "time"

type Client struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     *string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
