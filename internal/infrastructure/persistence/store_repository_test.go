package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/domain/store"
)

// newMockStoreRepository creates a GormStoreRepository with a mocked SQL connection
func newMockStoreRepository(t *testing.T) (*GormStoreRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStoreRepository(gormDB), mock, mockDB
}

func TestGormStoreRepository_FindByID(t *testing.T) {
	t.Run("finds existing store", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "name", "category", "city", "state", "images", "owner_id", "payment_provider", "payment_api_key", "status"}).
			AddRow(storeID, 1, "Livraria Central", "books", "Curitiba", "PR", "[]", "owner-1", "ASAAS", "", "APPROVED")

		mock.ExpectQuery(`SELECT \* FROM "stores" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(storeID, 1).
			WillReturnRows(rows)

		s, err := repo.FindByID(context.Background(), storeID)

		assert.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, storeID, s.ID)
		assert.Equal(t, "Livraria Central", s.Name)
		assert.Equal(t, store.StoreStatusApproved, s.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for non-existent store", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stores" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(storeID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		s, err := repo.FindByID(context.Background(), storeID)

		assert.NoError(t, err)
		assert.Nil(t, s)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreRepository_DecideIfPending(t *testing.T) {
	t.Run("wins when store is still pending", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()

		mock.ExpectExec(`UPDATE "stores" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		won, err := repo.DecideIfPending(context.Background(), storeID, store.StoreStatusApproved)

		assert.NoError(t, err)
		assert.True(t, won)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loses when the store was already decided", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()

		mock.ExpectExec(`UPDATE "stores" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		won, err := repo.DecideIfPending(context.Background(), storeID, store.StoreStatusRejected)

		assert.NoError(t, err)
		assert.False(t, won)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		s, err := store.NewStore("Floricultura Bela", "Flores", "flowers", "Recife", "PE", "owner-2")
		require.NoError(t, err)
		require.NoError(t, s.Approve())

		mock.ExpectExec(`UPDATE "stores" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), s)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version is a concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		s, err := store.NewStore("Floricultura Bela", "Flores", "flowers", "Recife", "PE", "owner-2")
		require.NoError(t, err)
		require.NoError(t, s.Approve())

		mock.ExpectExec(`UPDATE "stores" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), s)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreRepository_Delete(t *testing.T) {
	t.Run("removes the store and its vouchers in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "vouchers" WHERE store_id = \$1`).
			WithArgs(storeID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "stores" WHERE id = \$1`).
			WithArgs(storeID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), storeID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls the voucher delete back when the store delete fails", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()
		dbErr := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "vouchers" WHERE store_id = \$1`).
			WithArgs(storeID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "stores" WHERE id = \$1`).
			WithArgs(storeID).
			WillReturnError(dbErr)
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), storeID)

		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreRepository_FindAll(t *testing.T) {
	t.Run("counts and pages approved stores", func(t *testing.T) {
		repo, mock, mockDB := newMockStoreRepository(t)
		defer mockDB.Close()

		status := store.StoreStatusApproved

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stores" WHERE status = \$1`).
			WithArgs("APPROVED").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "version", "name", "images", "owner_id", "payment_provider", "status"}).
			AddRow(uuid.New(), 1, "Livraria Central", "[]", "owner-1", "ASAAS", "APPROVED")

		mock.ExpectQuery(`SELECT \* FROM "stores" WHERE status = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs("APPROVED", 10).
			WillReturnRows(rows)

		stores, total, err := repo.FindAll(context.Background(), store.Filter{
			Status:   &status,
			Page:     1,
			PageSize: 10,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, stores, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
