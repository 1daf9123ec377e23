package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/institut/vitrine/internal/app/models/dto"
)

const messagesPath = "/messages"

// Messages sends the public forms: pre-inscription, contact and newsletter.
type Messages struct{ c *Client }

// PreInscription registers the visitor's interest in a formation.
func (m *Messages) PreInscription(ctx context.Context, req dto.PreInscriptionRequest) (*dto.ApiResponse[dto.MessageDto], error) {
	return enveloped[dto.MessageDto](ctx, m.c, http.MethodPost, messagesPath+"/pre-inscription", nil, req)
}

// Contact sends a contact message.
func (m *Messages) Contact(ctx context.Context, req dto.ContactRequest) (*dto.ApiResponse[dto.MessageDto], error) {
	return enveloped[dto.MessageDto](ctx, m.c, http.MethodPost, messagesPath+"/contact", nil, req)
}

// SubscribeNewsletter returns the plain-text confirmation sent by the server.
func (m *Messages) SubscribeNewsletter(ctx context.Context, req dto.NewsletterSubscribeRequest) (string, error) {
	body, _, err := m.c.send(ctx, http.MethodPost, "/newsletter/subscribe", nil, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// AdminMessages lists received messages. Its filter dimension is the message type.
type AdminMessages struct{ c *Client }

// ListPage returns one page of every message, newest first.
func (a *AdminMessages) ListPage(ctx context.Context, req PageRequest) (*Page[dto.MessageDto], error) {
	return a.list(ctx, req, "", "")
}

// SearchPage matches nom, email, sujet or formation name.
func (a *AdminMessages) SearchPage(ctx context.Context, query string, req PageRequest) (*Page[dto.MessageDto], error) {
	return a.list(ctx, req, "", strings.TrimSpace(query))
}

// FilterByCategory keeps one message type; "all" or blank lists everything.
func (a *AdminMessages) FilterByCategory(ctx context.Context, msgType string, req PageRequest) (*Page[dto.MessageDto], error) {
	if isAll(msgType) {
		return a.ListPage(ctx, req)
	}
	return a.list(ctx, req, strings.TrimSpace(msgType), "")
}

func (a *AdminMessages) list(ctx context.Context, req PageRequest, msgType, search string) (*Page[dto.MessageDto], error) {
	q := pageQuery(req)
	if msgType != "" {
		q.Set("type", msgType)
	}
	if search != "" {
		q.Set("q", search)
	}
	return formationPage[dto.MessageDto](ctx, a.c, messagesPath, q)
}
