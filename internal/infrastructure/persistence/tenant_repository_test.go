package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func tenantRows(tenantID uuid.UUID, name, ownerUID string, nextSeq int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "owner_uid", "receipt_prefix", "week_start", "next_receipt_seq", "active",
	}).AddRow(tenantID, name, ownerUID, "BRP", "Monday", nextSeq, true)
}

func TestGormTenantRepository_FindByID(t *testing.T) {
	t.Run("finds existing tenant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, 1).
			WillReturnRows(tenantRows(tenantID, "Shear Genius", "owner-1", 5))

		shop, err := repo.FindByID(context.Background(), tenantID)

		assert.NoError(t, err)
		require.NotNil(t, shop)
		assert.Equal(t, "Shear Genius", shop.Name)
		assert.Equal(t, int64(5), shop.NextReceiptSeq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the tenant row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(tenantID, 1).
			WillReturnRows(tenantRows(tenantID, "Shear Genius", "owner-1", 1))

		shop, err := repo.FindByIDForUpdate(context.Background(), tenantID)

		assert.NoError(t, err)
		require.NotNil(t, shop)
		assert.Equal(t, tenantID, shop.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_FindByOwnerUID(t *testing.T) {
	t.Run("finds tenant by owner", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE owner_uid = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("owner-1", 1).
			WillReturnRows(tenantRows(tenantID, "Shear Genius", "owner-1", 1))

		shop, err := repo.FindByOwnerUID(context.Background(), "owner-1")

		assert.NoError(t, err)
		require.NotNil(t, shop)
		assert.Equal(t, "owner-1", shop.OwnerUID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when owner has no shop", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE owner_uid = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("owner-2", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		shop, err := repo.FindByOwnerUID(context.Background(), "owner-2")

		assert.Nil(t, shop)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when no row deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()

		mock.ExpectExec(`DELETE FROM "tenants" WHERE id = \$1`).
			WithArgs(tenantID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_Save(t *testing.T) {
	t.Run("updates existing tenant under the version guard", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		shop, err := tenant.NewTenant("Shear Genius", "owner-1", "owner@example.com")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "tenants" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), shop)

		assert.NoError(t, err)
		assert.Equal(t, 2, shop.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails with a conflict when the version moved", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		shop, err := tenant.NewTenant("Shear Genius", "owner-1", "owner@example.com")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "tenants" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "tenants" WHERE id = \$1`).
			WithArgs(shop.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err = repo.Save(context.Background(), shop)

		assert.ErrorIs(t, err, shared.ErrTransactionConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
