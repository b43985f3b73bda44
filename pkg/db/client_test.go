package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT)`).Error)

	client := FromGorm(conn)

	require.NoError(t, client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO things (name) VALUES ('kept')`).Error
	}))

	sentinel := errors.New("abort")
	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO things (name) VALUES ('dropped')`).Error; err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM things`).Scan(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_carts_user_vendor"}

	assert.True(t, IsUniqueViolation(pgErr, ""))
	assert.True(t, IsUniqueViolation(pgErr, "uq_carts_user_vendor"))
	assert.False(t, IsUniqueViolation(pgErr, "uq_other"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: carts.user_id, carts.vendor_id"), ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}
