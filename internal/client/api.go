package client

import (
	"context"
	"fmt"

	"github.com/relieflk/floodmap/internal/model"
)

// conversationParams carries the partner filter for the conversation
// endpoint.
type conversationParams struct {
	Partner string `url:"partner"`
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.AuthUser, error) {
	var user model.AuthUser
	err := c.post(ctx, "/api/auth/register", req, &user)
	return user, err
}

// Login authenticates and switches the client to the returned bearer
// token so later calls carry the session.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	var login model.LoginResponse
	if err := c.post(ctx, "/api/auth/login", req, &login); err != nil {
		return model.LoginResponse{}, err
	}
	c.SetToken(login.Token)
	return login, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (model.AuthUser, error) {
	var user model.AuthUser
	err := c.get(ctx, "/api/auth/me", nil, &user)
	return user, err
}

func (c *Client) ApprovedReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := c.get(ctx, "/api/markers/approved", nil, &reports)
	return reports, err
}

func (c *Client) PendingReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := c.get(ctx, "/api/markers/pending", nil, &reports)
	return reports, err
}

func (c *Client) MyReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := c.get(ctx, "/api/markers/my-reports", nil, &reports)
	return reports, err
}

func (c *Client) SubmitReport(ctx context.Context, req model.CreateReportRequest) (model.Report, error) {
	var report model.Report
	err := c.post(ctx, "/api/markers/report", req, &report)
	return report, err
}

func (c *Client) ApproveReport(ctx context.Context, id int64) (model.Report, error) {
	var report model.Report
	err := c.put(ctx, fmt.Sprintf("/api/markers/%d/approve", id), nil, &report)
	return report, err
}

func (c *Client) RejectReport(ctx context.Context, id int64) (model.Report, error) {
	var report model.Report
	err := c.put(ctx, fmt.Sprintf("/api/markers/%d/reject", id), nil, &report)
	return report, err
}

func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/markers/%d", id))
}

func (c *Client) Alerts(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	err := c.get(ctx, "/api/alerts", nil, &alerts)
	return alerts, err
}

func (c *Client) CreateAlert(ctx context.Context, req model.CreateAlertRequest) (model.Alert, error) {
	var alert model.Alert
	err := c.post(ctx, "/api/alerts", req, &alert)
	return alert, err
}

func (c *Client) DeleteAlert(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/alerts/%d", id))
}

func (c *Client) ChatPartners(ctx context.Context) ([]model.ChatPartner, error) {
	var partners []model.ChatPartner
	err := c.get(ctx, "/api/messages/partners", nil, &partners)
	return partners, err
}

// Conversation returns the thread with partner oldest first. The
// server marks the partner's messages read as a side effect.
func (c *Client) Conversation(ctx context.Context, partner string) ([]model.Message, error) {
	var messages []model.Message
	err := c.get(ctx, "/api/messages/conversation", conversationParams{Partner: partner}, &messages)
	return messages, err
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var count model.UnreadCount
	err := c.get(ctx, "/api/messages/unread-count", nil, &count)
	return count.Count, err
}

func (c *Client) SendMessage(ctx context.Context, req model.SendMessageRequest) (model.Message, error) {
	var message model.Message
	err := c.post(ctx, "/api/messages", req, &message)
	return message, err
}

func (c *Client) SubmitHelpRequest(ctx context.Context, req model.CreateHelpRequest) (model.HelpRequest, error) {
	var help model.HelpRequest
	err := c.post(ctx, "/api/help-requests", req, &help)
	return help, err
}

func (c *Client) HelpRequests(ctx context.Context) ([]model.HelpRequest, error) {
	var helps []model.HelpRequest
	err := c.get(ctx, "/api/help-requests", nil, &helps)
	return helps, err
}
