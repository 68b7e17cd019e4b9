package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobconnect/internal/types"
)

// -----------------------------------------------------------------------------
// Connection Methods
// -----------------------------------------------------------------------------

const connectionColumns = `id, requester_id, recipient_id, status, created_at, updated_at`

func scanConnection(row pgx.Row) (*types.Connection, error) {
	var c types.Connection
	if err := row.Scan(&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateConnection records a pending request. Any existing edge between the
// pair, in either direction and of any status, yields a ConflictError.
func (db *DB) CreateConnection(ctx context.Context, requesterID, recipientID uuid.UUID) (*types.Connection, error) {
	c, err := scanConnection(db.pool.QueryRow(ctx,
		`INSERT INTO connections (requester_id, recipient_id, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING `+connectionColumns,
		requesterID, recipientID))
	if err != nil {
		return nil, mapWriteError(err, "connection", "create")
	}
	return c, nil
}

// GetConnection retrieves a connection by ID; nil, nil when it does not exist.
func (db *DB) GetConnection(ctx context.Context, id uuid.UUID) (*types.Connection, error) {
	c, err := scanConnection(db.pool.QueryRow(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return c, nil
}

// UpdateConnectionStatus sets the status of a pending connection. A connection
// that exists but is no longer pending yields a ConflictError.
func (db *DB) UpdateConnectionStatus(ctx context.Context, id uuid.UUID, status types.ConnectionStatus) (*types.Connection, error) {
	c, err := scanConnection(db.pool.QueryRow(ctx,
		`UPDATE connections SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = 'pending'
		 RETURNING `+connectionColumns,
		status, id))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update connection: %w", err)
	}

	existing, getErr := db.GetConnection(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing == nil {
		return nil, &NotFoundError{Entity: "connection", ID: id.String()}
	}
	return nil, &ConflictError{Entity: "connection", Constraint: "status " + string(existing.Status)}
}

// GetConnectionBetween returns the edge between two users in either direction.
func (db *DB) GetConnectionBetween(ctx context.Context, a, b uuid.UUID) (*types.Connection, error) {
	c, err := scanConnection(db.pool.QueryRow(ctx,
		`SELECT `+connectionColumns+` FROM connections
		 WHERE (requester_id = $1 AND recipient_id = $2)
		    OR (requester_id = $2 AND recipient_id = $1)`,
		a, b))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return c, nil
}

// DeleteConnectionBetween removes the edge between two users whatever its status.
func (db *DB) DeleteConnectionBetween(ctx context.Context, a, b uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM connections
		 WHERE (requester_id = $1 AND recipient_id = $2)
		    OR (requester_id = $2 AND recipient_id = $1)`,
		a, b)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "connection", ID: a.String() + "/" + b.String()}
	}
	return nil
}

// ListConnections returns the users with an accepted edge to userID.
func (db *DB) ListConnections(ctx context.Context, userID uuid.UUID) ([]*types.User, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+userColumns+`
		 FROM connections c2
		 JOIN users u ON u.id = CASE WHEN c2.requester_id = $1 THEN c2.recipient_id ELSE c2.requester_id END
		 WHERE c2.status = 'accepted' AND (c2.requester_id = $1 OR c2.recipient_id = $1)
		 ORDER BY c2.updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan connections: %w", err)
	}
	return users, nil
}

// ListPendingConnections returns incoming pending requests with the requester's profile.
func (db *DB) ListPendingConnections(ctx context.Context, userID uuid.UUID) ([]*types.PendingConnection, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c2.id, c2.requester_id, c2.recipient_id, c2.status, c2.created_at, c2.updated_at,
		        `+userColumns+`
		 FROM connections c2
		 JOIN users u ON u.id = c2.requester_id
		 WHERE c2.recipient_id = $1 AND c2.status = 'pending'
		 ORDER BY c2.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending connections: %w", err)
	}
	defer rows.Close()

	pending := []*types.PendingConnection{}
	for rows.Next() {
		var p types.PendingConnection
		var r userRow
		dest := append([]any{&p.ID, &p.RequesterID, &p.RecipientID, &p.Status, &p.CreatedAt, &p.UpdatedAt}, r.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan pending connection: %w", err)
		}
		if p.Requester, err = r.build(); err != nil {
			return nil, err
		}
		pending = append(pending, &p)
	}
	return pending, rows.Err()
}

// ConnectedUserIDs returns every user sharing an edge of any status with userID.
func (db *DB) ConnectedUserIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT CASE WHEN requester_id = $1 THEN recipient_id ELSE requester_id END
		 FROM connections
		 WHERE requester_id = $1 OR recipient_id = $1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected users: %w", err)
	}
	defer rows.Close()

	ids := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan connected user: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
