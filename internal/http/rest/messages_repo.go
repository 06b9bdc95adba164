package rest

import (
	"context"
	"errors"
	"log"

	"github.com/relieflk/floodmap/internal/model"
)

var ErrRecipientNotAllowed = errors.New("recipient not allowed")

func (api *API) InsertMessageRepo(ctx context.Context, sender, recipient, content string) (model.Message, error) {
	query := `
        INSERT INTO messages (sender, recipient, content, read)
        VALUES ($1, $2, $3, FALSE)
        RETURNING id, sender, recipient, content, timestamp, read
    `
	var msg model.Message
	err := api.DB.QueryRow(ctx, query, sender, recipient, content).Scan(
		&msg.ID, &msg.Sender, &msg.Recipient, &msg.Content, &msg.Timestamp, &msg.Read,
	)
	if err != nil {
		log.Println("error inserting message", err)
		return model.Message{}, err
	}
	return msg, nil
}

// GetConversationRepo returns both directions of a two-party
// conversation in send order. Serial ids give the monotonic
// per-conversation ordering.
func (api *API) GetConversationRepo(ctx context.Context, user1, user2 string) ([]model.Message, error) {
	query := `
        SELECT id, sender, recipient, content, timestamp, read
        FROM messages
        WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
        ORDER BY id ASC
    `
	rows, err := api.DB.Query(ctx, query, user1, user2)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(&msg.ID, &msg.Sender, &msg.Recipient, &msg.Content, &msg.Timestamp, &msg.Read)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (api *API) GetMessagesNewestFirstRepo(ctx context.Context) ([]model.Message, error) {
	query := `
        SELECT id, sender, recipient, content, timestamp, read
        FROM messages
        ORDER BY id DESC
    `
	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(&msg.ID, &msg.Sender, &msg.Recipient, &msg.Content, &msg.Timestamp, &msg.Read)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkConversationReadRepo marks everything the partner sent to the
// viewer as read.
func (api *API) MarkConversationReadRepo(ctx context.Context, partner, viewer string) error {
	query := `
        UPDATE messages
        SET read = TRUE
        WHERE sender = $1 AND recipient = $2 AND read = FALSE
    `
	_, err := api.DB.Exec(ctx, query, partner, viewer)
	if err != nil {
		log.Println("error marking conversation read", err)
	}
	return err
}

func (api *API) CountUnreadRepo(ctx context.Context, viewer string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE recipient = $1 AND read = FALSE`

	err := api.DB.QueryRow(ctx, query, viewer).Scan(&count)
	if err != nil {
		log.Println("error counting unread messages", err)
		return 0, err
	}
	return count, nil
}
