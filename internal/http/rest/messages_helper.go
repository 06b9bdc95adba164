package rest

import (
	"context"
	"encoding/json"
	"log"

	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/values"
	"github.com/relieflk/floodmap/util/websockets"
)

// ChatPartnersHelper builds the sidebar list. Members only ever talk to
// ADMIN, so their list is a single entry with their total unread count.
// Admins get every counterpart ordered by most recent activity.
func (api *API) ChatPartnersHelper(ctx context.Context) ([]model.ChatPartner, string, string, error) {
	username, err := util.GetUsernameFromContext(ctx)
	if err != nil {
		return nil, values.NotAuthorised, "unable to get username from context", err
	}
	role, err := util.GetRoleFromContext(ctx)
	if err != nil {
		return nil, values.NotAuthorised, "unable to get role from context", err
	}

	if role != values.RoleAdmin {
		unread, err := api.CountUnreadRepo(ctx, username)
		if err != nil {
			return nil, values.Error, "failed to count unread messages", err
		}
		return []model.ChatPartner{{Name: values.RoleAdmin, Unread: unread}}, values.Success, "Partners retrieved successfully", nil
	}

	// Newest first, so the first time a partner appears fixes their
	// position in the sidebar.
	messages, err := api.GetMessagesNewestFirstRepo(ctx)
	if err != nil {
		return nil, values.Error, "failed to load messages", err
	}

	var order []string
	seen := make(map[string]bool)
	unread := make(map[string]int)

	for _, m := range messages {
		var partner string
		if m.Sender == username {
			partner = m.Recipient
		} else if m.Recipient == username {
			partner = m.Sender
			if !m.Read {
				unread[partner]++
			}
		} else {
			continue
		}

		if !seen[partner] {
			seen[partner] = true
			order = append(order, partner)
		}
	}

	partners := make([]model.ChatPartner, 0, len(order))
	for _, name := range order {
		partners = append(partners, model.ChatPartner{Name: name, Unread: unread[name]})
	}
	return partners, values.Success, "Partners retrieved successfully", nil
}

func (api *API) SendMessageHelper(ctx context.Context, req model.SendMessageRequest) (model.Message, string, string, error) {
	sender, err := util.GetUsernameFromContext(ctx)
	if err != nil {
		return model.Message{}, values.NotAuthorised, "unable to get username from context", err
	}

	// Members address the admin desk, not arbitrary users.
	role, err := util.GetRoleFromContext(ctx)
	if err != nil {
		return model.Message{}, values.NotAuthorised, "unable to get role from context", err
	}
	if role != values.RoleAdmin && req.Recipient != values.RoleAdmin {
		return model.Message{}, values.NotAllowed, "members can only message the admin desk", ErrRecipientNotAllowed
	}

	msg, err := api.InsertMessageRepo(ctx, sender, req.Recipient, req.Content)
	if err != nil {
		return model.Message{}, values.Error, "failed to send message", err
	}

	go func() {
		body, err := json.Marshal(map[string]interface{}{
			"type": websockets.EventDirectMessage,
			"data": msg,
		})
		if err != nil {
			log.Println("error marshalling message notification", err)
			return
		}
		api.Deps.Hub.NotifyUser(msg.Recipient, body)
	}()

	return msg, values.Created, "Message sent", nil
}
