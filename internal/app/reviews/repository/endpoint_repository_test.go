package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reviewhub/internal/app/reviews/entity"
)

// EndpointRepositoryTestSuite тестовый suite для PostgreSQL repository площадок
type EndpointRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  EndpointRepository
	sqlDB *sql.DB
}

func TestEndpointRepositorySuite(t *testing.T) {
	suite.Run(t, new(EndpointRepositoryTestSuite))
}

func (s *EndpointRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewEndpointRepository(s.db)
}

func (s *EndpointRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func (s *EndpointRepositoryTestSuite) endpointRows(endpoints ...entity.Endpoint) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "url", "active", "api_key_hash", "created_at", "updated_at"})
	for _, e := range endpoints {
		rows.AddRow(e.ID, e.Name, e.URL, e.Active, e.APIKeyHash, e.CreatedAt, e.UpdatedAt)
	}
	return rows
}

// ===================== List Tests =====================

func (s *EndpointRepositoryTestSuite) TestList_Success() {
	ctx := context.Background()
	endpoints := []entity.Endpoint{
		{ID: uuid.New(), Name: "Partner A", URL: "https://a.example.com", Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New(), Name: "Partner B", URL: "https://b.example.com", Active: false, CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "endpoints"`)).
		WillReturnRows(s.endpointRows(endpoints...))

	result, err := s.repo.List(ctx)

	s.NoError(err)
	s.Len(result, 2)
	s.Equal("Partner A", result[0].Name)
}

func (s *EndpointRepositoryTestSuite) TestList_Empty() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "endpoints"`)).
		WillReturnRows(s.endpointRows())

	result, err := s.repo.List(context.Background())

	s.NoError(err)
	s.Empty(result)
}

// ===================== GetByID Tests =====================

func (s *EndpointRepositoryTestSuite) TestGetByID_Success() {
	id := uuid.New()
	endpoint := entity.Endpoint{ID: id, Name: "Partner A", URL: "https://a.example.com", Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "endpoints" WHERE id = $1`)).
		WillReturnRows(s.endpointRows(endpoint))

	result, err := s.repo.GetByID(context.Background(), id)

	s.NoError(err)
	s.Equal(id, result.ID)
	s.Equal("Partner A", result.Name)
}

func (s *EndpointRepositoryTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "endpoints" WHERE id = $1`)).
		WillReturnRows(s.endpointRows())

	result, err := s.repo.GetByID(context.Background(), uuid.New())

	s.ErrorIs(err, ErrEndpointNotFound)
	s.Nil(result)
}

// ===================== GetActiveByIDs Tests =====================

func (s *EndpointRepositoryTestSuite) TestGetActiveByIDs_FiltersInactive() {
	active := entity.Endpoint{ID: uuid.New(), Name: "Active", URL: "https://a.example.com", Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "endpoints" WHERE id IN`)).
		WillReturnRows(s.endpointRows(active))

	result, err := s.repo.GetActiveByIDs(context.Background(), []uuid.UUID{active.ID, uuid.New()})

	s.NoError(err)
	s.Len(result, 1)
	s.True(result[0].Active)
}

func (s *EndpointRepositoryTestSuite) TestGetActiveByIDs_EmptyInput() {
	// Пустой список ID не должен ходить в базу
	result, err := s.repo.GetActiveByIDs(context.Background(), nil)

	s.NoError(err)
	s.Empty(result)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetActive Tests =====================

func (s *EndpointRepositoryTestSuite) TestGetActive_Success() {
	active := entity.Endpoint{ID: uuid.New(), Name: "Active", URL: "https://a.example.com", Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "endpoints" WHERE active = $1`)).
		WillReturnRows(s.endpointRows(active))

	result, err := s.repo.GetActive(context.Background())

	s.NoError(err)
	s.Len(result, 1)
}

// ===================== Create Tests =====================

func (s *EndpointRepositoryTestSuite) TestCreate_Success() {
	endpoint := &entity.Endpoint{
		ID:         uuid.New(),
		Name:       "Partner A",
		URL:        "https://a.example.com",
		Active:     true,
		APIKeyHash: "hash",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "endpoints"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	err := s.repo.Create(context.Background(), endpoint)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *EndpointRepositoryTestSuite) TestCreate_DBError() {
	endpoint := &entity.Endpoint{ID: uuid.New(), Name: "Partner A", URL: "https://a.example.com", Active: true}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "endpoints"`)).
		WillReturnError(errors.New("connection refused"))
	s.mock.ExpectRollback()

	err := s.repo.Create(context.Background(), endpoint)

	s.Error(err)
}

// ===================== Update Tests =====================

func (s *EndpointRepositoryTestSuite) TestUpdate_Success() {
	endpoint := &entity.Endpoint{ID: uuid.New(), Name: "Renamed", URL: "https://a.example.com", Active: false}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "endpoints" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Update(context.Background(), endpoint)

	s.NoError(err)
}

func (s *EndpointRepositoryTestSuite) TestUpdate_NotFound() {
	endpoint := &entity.Endpoint{ID: uuid.New(), Name: "Ghost", URL: "https://ghost.example.com"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "endpoints" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.Update(context.Background(), endpoint)

	s.ErrorIs(err, ErrEndpointNotFound)
}

// ===================== Delete Tests =====================

func (s *EndpointRepositoryTestSuite) TestDelete_Success() {
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "endpoints"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Delete(context.Background(), id)

	s.NoError(err)
}

func (s *EndpointRepositoryTestSuite) TestDelete_NotFound() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "endpoints"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.Delete(context.Background(), uuid.New())

	s.ErrorIs(err, ErrEndpointNotFound)
}
