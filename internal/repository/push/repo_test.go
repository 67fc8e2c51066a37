package push

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

func TestFetchPending(t *testing.T) {
	repo, mock := setupMockDB(t)

	columns := []string{"id", "network", "window", "type", "user", "nick", "message", "recipient"}
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, network, "window", type, "user", nick, message, recipient
		FROM push
		ORDER BY id;
    `)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "libera", "#ops", "msg", "alice", "alice_", "hello", "ops").
			AddRow(2, "oftc", "#dev", "hilight", nil, nil, nil, nil))

	notifications, err := repo.FetchPending(context.Background())
	assert.NoError(t, err)
	assert.Len(t, notifications, 2)

	assert.Equal(t, int64(1), notifications[0].ID)
	assert.Equal(t, "libera", notifications[0].Network)
	assert.Equal(t, "alice_", notifications[0].Nick)
	assert.Equal(t, "ops", notifications[0].Recipient)

	// NULL columns come back as empty strings.
	assert.Equal(t, int64(2), notifications[1].ID)
	assert.Equal(t, "", notifications[1].User)
	assert.Equal(t, "", notifications[1].Nick)
	assert.Equal(t, "", notifications[1].Message)
	assert.Equal(t, "", notifications[1].Recipient)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPending_Empty(t *testing.T) {
	repo, mock := setupMockDB(t)

	columns := []string{"id", "network", "window", "type", "user", "nick", "message", "recipient"}
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, network, "window", type, "user", nick, message, recipient
		FROM push
		ORDER BY id;
    `)).
		WillReturnRows(sqlmock.NewRows(columns))

	notifications, err := repo.FetchPending(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, notifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPending_QueryError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, network, "window", type, "user", nick, message, recipient
		FROM push
		ORDER BY id;
    `)).
		WillReturnError(errors.New("connection refused"))

	notifications, err := repo.FetchPending(context.Background())
	assert.Error(t, err)
	assert.Nil(t, notifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM push
		WHERE id = $1;
    `)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM push
		WHERE id = $1;
    `)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrPushNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
