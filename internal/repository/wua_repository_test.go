package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/wrd-mh/pah-award-api/internal/models"
)

func newWUARepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func wuaRows(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "registration_number", "name", "district", "circle", "corporation", "category", "contact_email", "contact_phone", "active", "created_at", "updated_at"}).
		AddRow(id, "WUA/NSK/0042", "Godavari WUA", "Nashik", "Nashik Circle", "Godavari Corporation", "MAJOR", "office@godavariwua.in", "02530000000", true, time.Now(), time.Now())
}

func TestWUARepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newWUARepoMock(t)
	defer cleanup()
	repo := NewWUARepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM wuas WHERE id = $1 LIMIT 1")).
		WithArgs("wua-1").
		WillReturnRows(wuaRows("wua-1"))

	wua, err := repo.FindByID(context.Background(), "wua-1")
	require.NoError(t, err)
	require.Equal(t, models.WUACategoryMajor, wua.Category)
	require.Equal(t, "Nashik", wua.District)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWUARepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newWUARepoMock(t)
	defer cleanup()
	repo := NewWUARepository(db)

	active := true
	mock.ExpectQuery(regexp.QuoteMeta("district = $1 AND category = $2 AND active = $3 ORDER BY name ASC LIMIT 50 OFFSET 0")).
		WithArgs("Nashik", models.WUACategoryMajor, true).
		WillReturnRows(wuaRows("wua-1"))

	wuas, err := repo.List(context.Background(), models.WUAFilter{
		District: "Nashik",
		Category: models.WUACategoryMajor,
		Active:   &active,
	})
	require.NoError(t, err)
	require.Len(t, wuas, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWUARepositoryCreateAssignsDefaults(t *testing.T) {
	db, mock, cleanup := newWUARepoMock(t)
	defer cleanup()
	repo := NewWUARepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wuas")).
		WithArgs(sqlmock.AnyArg(), "WUA/NSK/0042", "Godavari WUA", "Nashik", "Nashik Circle", "Godavari Corporation", models.WUACategoryMajor, "office@godavariwua.in", "02530000000", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	wua := &models.WUA{
		RegistrationNumber: "WUA/NSK/0042",
		Name:               "Godavari WUA",
		District:           "Nashik",
		Circle:             "Nashik Circle",
		Corporation:        "Godavari Corporation",
		Category:           models.WUACategoryMajor,
		ContactEmail:       "office@godavariwua.in",
		ContactPhone:       "02530000000",
		Active:             true,
	}
	require.NoError(t, repo.Create(context.Background(), wua))
	require.NotEmpty(t, wua.ID)
	require.False(t, wua.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWUARepositoryUpdateKeepsIdentity(t *testing.T) {
	db, mock, cleanup := newWUARepoMock(t)
	defer cleanup()
	repo := NewWUARepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wuas SET name =")).
		WithArgs("Godavari WUA", "Nashik", "Nashik Circle", "Godavari Corporation", "office@godavariwua.in", "02530000000", false, sqlmock.AnyArg(), "wua-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	wua := &models.WUA{
		ID:           "wua-1",
		Name:         "Godavari WUA",
		District:     "Nashik",
		Circle:       "Nashik Circle",
		Corporation:  "Godavari Corporation",
		ContactEmail: "office@godavariwua.in",
		ContactPhone: "02530000000",
		Active:       false,
	}
	require.NoError(t, repo.Update(context.Background(), wua))
	require.NoError(t, mock.ExpectationsWereMet())
}
