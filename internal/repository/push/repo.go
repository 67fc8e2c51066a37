package push

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/dbpg"

	"github.com/znclog/push-forwarder/internal/model"
)

// ErrPushNotFound is returned by DeleteByID when the row is already gone.
var ErrPushNotFound = errors.New("push row not found")

// Repository provides access to the push queue table.
//
// Every method is a single short-lived statement on the pooled
// connection; no transaction spans multiple rows or poll cycles.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new push queue repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// FetchPending retrieves all pending push rows ordered by ascending id,
// which is the delivery-order contract of the queue. An empty queue
// yields an empty slice, not an error.
func (r *Repository) FetchPending(ctx context.Context) ([]model.Notification, error) {
	query := `
		SELECT id, network, "window", type, "user", nick, message, recipient
		FROM push
		ORDER BY id;
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending push rows: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n                             model.Notification
			user, nick, message, recipient sql.NullString
		)

		if err := rows.Scan(&n.ID, &n.Network, &n.Window, &n.Type, &user, &nick, &message, &recipient); err != nil {
			return nil, fmt.Errorf("failed to scan push row: %w", err)
		}

		n.User = user.String
		n.Nick = nick.String
		n.Message = message.String
		n.Recipient = recipient.String

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read push rows: %w", err)
	}

	return notifications, nil
}

// DeleteByID removes a delivered push row from the queue.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	query := `
		DELETE FROM push
		WHERE id = $1;
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete push row: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrPushNotFound
	}

	return nil
}
