package leads

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submissionRowColumns = []string{
	"id", "kind", "name", "email", "phone", "company", "service", "timeline", "budget",
	"preferred_date", "preferred_time", "description", "message", "intent", "company_type", "created_at",
}

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO submissions").
		WithArgs(pgxmock.AnyArg(), "request-service", "Ravi", "ravi@example.com", "98450 11111",
			"", "business-automation", "asap", "", "", "", "Automate invoicing", "", "automate", "business").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	sub, err := repo.Create(context.Background(), &CreateSubmissionRequest{
		Kind:        KindRequestService,
		Name:        " Ravi ",
		Email:       "ravi@example.com",
		Phone:       "98450 11111",
		Service:     "business-automation",
		Description: "Automate invoicing",
		Timeline:    "asap",
		Intent:      "automate",
		CompanyType: "business",
	})
	require.NoError(t, err)
	assert.Equal(t, created, sub.CreatedAt)
	assert.NotEmpty(t, sub.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateRejectsInvalid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	_, err = repo.Create(context.Background(), &CreateSubmissionRequest{Kind: KindBookCall, Name: "A"})
	var mf *MissingFieldsError
	assert.ErrorAs(t, err, &mf)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM submissions WHERE id").
		WithArgs("sub-1").
		WillReturnRows(pgxmock.NewRows(submissionRowColumns).AddRow(
			"sub-1", "book-call", "Asha", "asha@example.com", "1", "", "", "", "",
			"2026-11-02", "10:30", "", "hello", "discuss", "startup", created))

	sub, err := repo.GetByID(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, KindBookCall, sub.Kind)
	assert.Equal(t, "10:30", sub.PreferredTime)

	mock.ExpectQuery("FROM submissions WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM submissions").
		WithArgs("book-call", 50, 0).
		WillReturnRows(pgxmock.NewRows(submissionRowColumns).
			AddRow("b", "book-call", "B", "b@x.io", "2", "", "", "", "", "d", "t", "", "", "", "", now).
			AddRow("a", "book-call", "A", "a@x.io", "1", "", "", "", "", "d", "t", "", "", "", "", now.Add(-time.Hour)))

	subs, err := repo.List(context.Background(), ListFilter{Kind: KindBookCall})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "b", subs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
