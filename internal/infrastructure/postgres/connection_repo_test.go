package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carelink/carelink/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func connectionRows(id, userID, helperID string, status domain.ConnectionStatus) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "user_id", "helper_id", "status", "is_deleted",
		"deleted_at", "deleted_by", "created_at", "updated_at",
	}).AddRow(id, userID, helperID, status, false, nil, nil, now, now)
}

func TestConnectionCreate_ReturnsPendingRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewConnectionRepository(mock)

	mock.ExpectQuery(`INSERT INTO connections`).
		WithArgs("u1", "h1").
		WillReturnRows(connectionRows("c1", "u1", "h1", domain.ConnectionPending))

	conn, err := repo.Create(context.Background(), "u1", "h1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if conn.Status != domain.ConnectionPending {
		t.Errorf("status = %q, want pending", conn.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Two concurrent requests both pass the existence check; the partial unique
// index makes the loser's insert fail with 23505, which must come out as
// the domain error, not a raw storage error.
func TestConnectionCreate_UniqueViolation_IsAlreadyRequested(t *testing.T) {
	mock := newMockPool(t)
	repo := NewConnectionRepository(mock)

	mock.ExpectQuery(`INSERT INTO connections`).
		WithArgs("u1", "h1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "u1", "h1")
	if !errors.Is(err, domain.ErrAlreadyRequested) {
		t.Errorf("want ErrAlreadyRequested, got %v", err)
	}
}

func TestFindActiveByUserAndHelper_NoRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewConnectionRepository(mock)

	mock.ExpectQuery(`SELECT (.+) FROM connections`).
		WithArgs("u1", "h1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindActiveByUserAndHelper(context.Background(), "u1", "h1")
	if !errors.Is(err, domain.ErrConnectionNotFound) {
		t.Errorf("want ErrConnectionNotFound, got %v", err)
	}
}

func TestUpdateStatus_CASMiss_OnSettledRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewConnectionRepository(mock)

	// Conditional update touches nothing because the row is approved.
	mock.ExpectExec(`UPDATE connections`).
		WithArgs("c1", domain.ConnectionApproved).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT (.+) FROM connections WHERE id`).
		WithArgs("c1").
		WillReturnRows(connectionRows("c1", "u1", "h1", domain.ConnectionApproved))

	err := repo.UpdateStatus(context.Background(), "c1", domain.ConnectionApproved)
	if !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Errorf("want ErrAlreadyResolved, got %v", err)
	}
}

func TestUpdateStatus_CASMiss_OnMissingRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewConnectionRepository(mock)

	mock.ExpectExec(`UPDATE connections`).
		WithArgs("nope", domain.ConnectionRejected).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT (.+) FROM connections WHERE id`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	err := repo.UpdateStatus(context.Background(), "nope", domain.ConnectionRejected)
	if !errors.Is(err, domain.ErrConnectionNotFound) {
		t.Errorf("want ErrConnectionNotFound, got %v", err)
	}
}

func TestSoftDelete_SecondDelete_IsAlreadyResolved(t *testing.T) {
	mock := newMockPool(t)
	repo := NewConnectionRepository(mock)

	mock.ExpectExec(`UPDATE connections`).
		WithArgs("c1", "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := repo.SoftDelete(context.Background(), "c1", "u1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	// Second delete hits is_deleted = false and misses; bookkeeping of the
	// first deletion stays untouched.
	mock.ExpectExec(`UPDATE connections`).
		WithArgs("c1", "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT (.+) FROM connections WHERE id`).
		WithArgs("c1").
		WillReturnRows(connectionRows("c1", "u1", "h1", domain.ConnectionApproved))

	err := repo.SoftDelete(context.Background(), "c1", "u1")
	if !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Errorf("want ErrAlreadyResolved, got %v", err)
	}
}

func TestFindPendingByHelper_ScansPartyFields(t *testing.T) {
	mock := newMockPool(t)
	repo := NewConnectionRepository(mock)

	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "helper_id", "status", "is_deleted",
		"deleted_at", "deleted_by", "created_at", "updated_at",
		"party_id", "party_name", "party_mail",
	}).
		AddRow("c2", "u2", "h1", domain.ConnectionPending, false, nil, nil, now, now, "u2", "Hanako", "hanako@example.com").
		AddRow("c1", "u1", "h1", domain.ConnectionPending, false, nil, nil, now.Add(-time.Hour), now, "u1", "Taro", "taro@example.com")

	mock.ExpectQuery(`SELECT (.+) FROM connections c`).
		WithArgs("h1").
		WillReturnRows(rows)

	got, err := repo.FindPendingByHelper(context.Background(), "h1")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Party.Name != "Hanako" {
		t.Errorf("party name = %q, want Hanako", got[0].Party.Name)
	}
}
