package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/drustvo/internal/model"
)

// fixture is an organisation with one member, department and event, ready
// to issue items against.
type fixture struct {
	org        *model.Organisation
	member     *model.Member
	department *model.Department
	event      *model.Event
}

func newFixture(t *testing.T, db *sql.DB, name string) fixture {
	t.Helper()
	ctx := context.Background()

	org, err := CreateOrganisation(ctx, db, name, "hash")
	require.NoError(t, err)
	member, err := CreateMember(ctx, db, org.ID, "Ana", 2023)
	require.NoError(t, err)
	department, err := CreateDepartment(ctx, db, org.ID, "Logistics", "logistics@example.com")
	require.NoError(t, err)
	event, err := CreateEvent(ctx, db, org.ID, "Spring Fair", 2025)
	require.NoError(t, err)

	return fixture{org: org, member: member, department: department, event: event}
}

func (f fixture) issue(itemID string, qty int) model.IssueRequest {
	return model.IssueRequest{
		ItemID:             itemID,
		EventID:            f.event.ID,
		IssuedBy:           f.member.ID,
		DepartmentID:       f.department.ID,
		QuantityIssued:     qty,
		ExpectedReturnDate: time.Now().Add(24 * time.Hour),
	}
}
