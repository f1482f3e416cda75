package sql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRepository_FindChoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEngagementRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("choice recorded", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"choice"}).AddRow("like")

		mock.ExpectPrepare("SELECT choice FROM engagement_choices").
			ExpectQuery().
			WithArgs(userID, productID).
			WillReturnRows(rows)

		choice, err := repo.FindChoice(ctx, userID, productID)
		require.NoError(t, err)
		assert.Equal(t, model.ActionLike, choice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no choice recorded", func(t *testing.T) {
		mock.ExpectPrepare("SELECT choice FROM engagement_choices").
			ExpectQuery().
			WithArgs(userID, productID).
			WillReturnError(sql.ErrNoRows)

		choice, err := repo.FindChoice(ctx, userID, productID)
		require.NoError(t, err)
		assert.Equal(t, model.EngagementAction(""), choice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEngagementRepository_SetChoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEngagementRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	mock.ExpectPrepare("INSERT INTO engagement_choices").
		ExpectExec().
		WithArgs(userID, productID, string(model.ActionDislike), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetChoice(ctx, userID, productID, model.ActionDislike)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_ClearChoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEngagementRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("clears an existing choice", func(t *testing.T) {
		mock.ExpectPrepare("DELETE FROM engagement_choices").
			ExpectExec().
			WithArgs(userID, productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ClearChoice(ctx, userID, productID)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clearing an absent choice is a no-op", func(t *testing.T) {
		mock.ExpectPrepare("DELETE FROM engagement_choices").
			ExpectExec().
			WithArgs(userID, productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ClearChoice(ctx, userID, productID)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
