package model

import (
	"time"
)

type Company struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// CompanyStats is a directory listing row: a company plus its aggregate
// counts, computed in a single query so the numbers describe one snapshot.
type CompanyStats struct {
	Company
	MemberCount int `db:"member_count"`
	VideoCount  int `db:"video_count"`
}
