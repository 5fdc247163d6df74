package model

import "time"

// Item is a stock-keeping unit tracked by quantity, not individually.
// QuantityAvailable is QuantityTotal minus everything still issued.
type Item struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	QuantityTotal     int       `json:"quantity_total"`
	QuantityAvailable int       `json:"quantity_available"`
	ImageMime         string    `json:"image_mime,omitempty"`
	OrganisationID    string    `json:"organisation_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// QuantityIssued returns how many units are currently out.
func (i *Item) QuantityIssued() int {
	return i.QuantityTotal - i.QuantityAvailable
}

// ItemLog records one issue of an item and, later, its return.
type ItemLog struct {
	ID                 string     `json:"id"`
	ItemID             string     `json:"item_id"`
	EventID            string     `json:"event_id"`
	IssuedBy           string     `json:"issued_by"`
	DepartmentID       string     `json:"department_id"`
	Phone              string     `json:"phone,omitempty"`
	QuantityIssued     int        `json:"quantity_issued"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	ReturnedAt         *time.Time `json:"returned_at,omitempty"`
	ReturnedBy         *string    `json:"returned_by,omitempty"`
	OrganisationID     string     `json:"organisation_id"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Outstanding reports whether the issued units have not come back yet.
func (l *ItemLog) Outstanding() bool {
	return l.ReturnedAt == nil
}

// Overdue reports whether the log is outstanding past its expected return date.
func (l *ItemLog) Overdue(now time.Time) bool {
	return l.Outstanding() && l.ExpectedReturnDate.Before(now)
}

// Item log filters.
const (
	LogStatusAll      = "ALL"
	LogStatusPending  = "PENDING"
	LogStatusReturned = "RETURNED"
	LogStatusOverdue  = "OVERDUE"
)

// ValidLogStatus reports whether s is a known item log filter.
func ValidLogStatus(s string) bool {
	switch s {
	case LogStatusAll, LogStatusPending, LogStatusReturned, LogStatusOverdue:
		return true
	}
	return false
}

// IssueRequest holds everything needed to issue an item.
type IssueRequest struct {
	ItemID             string
	EventID            string
	IssuedBy           string
	DepartmentID       string
	Phone              string
	QuantityIssued     int
	ExpectedReturnDate time.Time
}

// InventoryStats aggregates an organisation's stock and issue activity.
type InventoryStats struct {
	Items             int `json:"items"`
	QuantityTotal     int `json:"quantity_total"`
	QuantityAvailable int `json:"quantity_available"`
	QuantityIssued    int `json:"quantity_issued"`
	OutstandingLogs   int `json:"outstanding_logs"`
	ReturnedLogs      int `json:"returned_logs"`
	OverdueLogs       int `json:"overdue_logs"`
}

// StockDrift describes an item whose stored availability disagrees with
// what its outstanding logs imply.
type StockDrift struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Stored   int    `json:"stored"`
	Derived  int    `json:"derived"`
	Repaired bool   `json:"repaired"`
}
