package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/giftwell/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGiftRepository creates a GormGiftRepository with a mocked SQL connection
func newMockGiftRepository(t *testing.T) (*GormGiftRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormGiftRepository(gormDB), mock, mockDB
}

func TestGormGiftRepository_FindByID(t *testing.T) {
	t.Run("finds existing gift", func(t *testing.T) {
		repo, mock, mockDB := newMockGiftRepository(t)
		defer mockDB.Close()

		giftID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "category", "image_url"}).
			AddRow(giftID, "Scented Soy Candle", decimal.NewFromFloat(16.00), "home", "")

		mock.ExpectQuery(`SELECT \* FROM "gifts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(giftID, 1).
			WillReturnRows(rows)

		gift, err := repo.FindByID(context.Background(), giftID)

		assert.NoError(t, err)
		require.NotNil(t, gift)
		assert.Equal(t, giftID, gift.ID)
		assert.Equal(t, "Scented Soy Candle", gift.Name)
		assert.Equal(t, "16.00", gift.Price.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing gift", func(t *testing.T) {
		repo, mock, mockDB := newMockGiftRepository(t)
		defer mockDB.Close()

		giftID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "gifts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(giftID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		gift, err := repo.FindByID(context.Background(), giftID)

		assert.Error(t, err)
		assert.Nil(t, gift)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormGiftRepository_FindAll(t *testing.T) {
	t.Run("returns gifts ordered by category and name", func(t *testing.T) {
		repo, mock, mockDB := newMockGiftRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "category", "image_url"}).
			AddRow(uuid.New(), "Premium Tea Collection", decimal.NewFromFloat(21.00), "gourmet", "").
			AddRow(uuid.New(), "Wool Throw Blanket", decimal.NewFromFloat(45.00), "home", "")

		mock.ExpectQuery(`SELECT \* FROM "gifts" ORDER BY category ASC, name ASC`).
			WillReturnRows(rows)

		gifts, err := repo.FindAll(context.Background())

		assert.NoError(t, err)
		require.Len(t, gifts, 2)
		assert.Equal(t, "Premium Tea Collection", gifts[0].Name)
		assert.Equal(t, "Wool Throw Blanket", gifts[1].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for empty catalog", func(t *testing.T) {
		repo, mock, mockDB := newMockGiftRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "category", "image_url"})

		mock.ExpectQuery(`SELECT \* FROM "gifts" ORDER BY category ASC, name ASC`).
			WillReturnRows(rows)

		gifts, err := repo.FindAll(context.Background())

		assert.NoError(t, err)
		assert.Empty(t, gifts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormGiftRepository_Count(t *testing.T) {
	t.Run("counts catalog gifts", func(t *testing.T) {
		repo, mock, mockDB := newMockGiftRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "gifts"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

		count, err := repo.Count(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(8), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
