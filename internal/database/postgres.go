package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/Dileepkumar18311/ChatApp/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}

const userColumns = `id, username, email, display_name, password_hash, avatar, bio, status, contact_number, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.PasswordHash,
		&user.Avatar, &user.Bio, &user.Status, &user.ContactNumber, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// User Repository Implementation
func (db *PostgresDB) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, display_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + userColumns

	created, err := scanUser(db.pool.QueryRow(ctx, query, user.Username, user.Email, user.DisplayName, user.PasswordHash))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (db *PostgresDB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.pool.QueryRow(ctx, query, id))
}

func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.pool.QueryRow(ctx, query, email))
}

func (db *PostgresDB) UserExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var exists bool
	err := db.pool.QueryRow(ctx, query, username, email).Scan(&exists)
	return exists, err
}

func (db *PostgresDB) UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error) {
	query := `
		UPDATE users SET
			display_name   = COALESCE(NULLIF($2, ''), display_name),
			username       = COALESCE(NULLIF($3, ''), username),
			email          = COALESCE(NULLIF($4, ''), email),
			status         = COALESCE(NULLIF($5, ''), status),
			contact_number = COALESCE(NULLIF($6, ''), contact_number),
			avatar         = COALESCE(NULLIF($7, ''), avatar),
			bio            = COALESCE(NULLIF($8, ''), bio),
			updated_at     = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(db.pool.QueryRow(ctx, query, id,
		req.DisplayName, req.Username, req.Email, req.Status, req.ContactNumber, req.Avatar, req.Bio,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (db *PostgresDB) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	tag, err := db.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) ListUsers(ctx context.Context, excludeID int, search string) ([]*models.Identity, error) {
	query := `
		SELECT id, username, display_name, avatar
		FROM users
		WHERE id <> $1
		  AND ($2 = '' OR username ILIKE '%' || $2 || '%' OR display_name ILIKE '%' || $2 || '%')
		ORDER BY username`

	rows, err := db.pool.Query(ctx, query, excludeID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.Identity{}
	for rows.Next() {
		u := &models.Identity{}
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Avatar); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Message Repository Implementation
func (db *PostgresDB) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (content, sender_id, receiver_id, group_id, message_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, content, sender_id, receiver_id, group_id, message_type, is_edited, edited_at, created_at, updated_at`

	created := &models.Message{}
	err := db.pool.QueryRow(ctx, query, msg.Content, msg.SenderID, msg.ReceiverID, msg.GroupID, msg.MessageType).Scan(
		&created.ID, &created.Content, &created.SenderID, &created.ReceiverID, &created.GroupID,
		&created.MessageType, &created.IsEdited, &created.EditedAt, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", mapError(err))
	}
	return created, nil
}

const messageViewSelect = `
	SELECT m.id, m.content, m.sender_id, m.receiver_id, m.group_id, m.message_type,
	       m.is_edited, m.edited_at, m.created_at, m.updated_at,
	       s.id, s.username, s.display_name, s.avatar,
	       r.id, r.username, r.display_name
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	LEFT JOIN users r ON r.id = m.receiver_id`

func scanMessageView(row pgx.Row) (*models.MessageView, error) {
	view := &models.MessageView{Sender: &models.Identity{}}
	var (
		receiverID          *int
		receiverUsername    *string
		receiverDisplayName *string
	)
	err := row.Scan(
		&view.ID, &view.Content, &view.SenderID, &view.ReceiverID, &view.GroupID, &view.MessageType,
		&view.IsEdited, &view.EditedAt, &view.CreatedAt, &view.UpdatedAt,
		&view.Sender.ID, &view.Sender.Username, &view.Sender.DisplayName, &view.Sender.Avatar,
		&receiverID, &receiverUsername, &receiverDisplayName,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if receiverID != nil {
		view.Receiver = &models.Participant{ID: *receiverID}
		if receiverUsername != nil {
			view.Receiver.Username = *receiverUsername
		}
		if receiverDisplayName != nil {
			view.Receiver.DisplayName = *receiverDisplayName
		}
	}
	return view, nil
}

func (db *PostgresDB) GetMessageView(ctx context.Context, id int) (*models.MessageView, error) {
	return scanMessageView(db.pool.QueryRow(ctx, messageViewSelect+` WHERE m.id = $1`, id))
}

// ListConversationMessages returns one page of a direct conversation, newest first.
func (db *PostgresDB) ListConversationMessages(ctx context.Context, userID, peerID, limit, offset int) ([]*models.MessageView, error) {
	query := messageViewSelect + `
		WHERE m.group_id IS NULL
		  AND ((m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1))
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $3 OFFSET $4`

	rows, err := db.pool.Query(ctx, query, userID, peerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.MessageView{}
	for rows.Next() {
		view, err := scanMessageView(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, view)
	}
	return messages, rows.Err()
}

// ListConversations returns the latest direct message per peer, newest conversation first.
func (db *PostgresDB) ListConversations(ctx context.Context, userID int) ([]*models.Conversation, error) {
	query := `
		WITH latest AS (
			SELECT DISTINCT ON (peer_id) peer_id, id
			FROM (
				SELECT m.id, m.created_at,
				       CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS peer_id
				FROM messages m
				WHERE m.group_id IS NULL AND (m.sender_id = $1 OR m.receiver_id = $1)
			) pairs
			WHERE peer_id IS NOT NULL
			ORDER BY peer_id, created_at DESC, id DESC
		)
		SELECT p.id, p.username, p.display_name, p.avatar,
		       m.id, m.content, m.sender_id, m.receiver_id, m.group_id, m.message_type,
		       m.is_edited, m.edited_at, m.created_at, m.updated_at
		FROM latest l
		JOIN users p ON p.id = l.peer_id
		JOIN messages m ON m.id = l.id
		ORDER BY m.created_at DESC, m.id DESC`

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []*models.Conversation{}
	for rows.Next() {
		c := &models.Conversation{LastMessage: &models.MessageView{}}
		m := &c.LastMessage.Message
		if err := rows.Scan(
			&c.User.ID, &c.User.Username, &c.User.DisplayName, &c.User.Avatar,
			&m.ID, &m.Content, &m.SenderID, &m.ReceiverID, &m.GroupID, &m.MessageType,
			&m.IsEdited, &m.EditedAt, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}
