package domain

import "time"

// Department groups employees and names the team lead who reviews their leave.
type Department struct {
	ID        string
	Name      string
	HeadName  string
	TLEmail   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
