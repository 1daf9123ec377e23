package models

import (
	"strings"
	"time"
)

// MessageType tells a pre-inscription from a plain contact message
type MessageType string

const (
	MessagePreInscription MessageType = "PRE_INSCRIPTION"
	MessageContact        MessageType = "CONTACT"
)

// ParseMessageType accepts any casing and the dashed form; ok is false for unknown values.
func ParseMessageType(s string) (MessageType, bool) {
	t := MessageType(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
	switch t {
	case MessagePreInscription, MessageContact:
		return t, true
	}
	return "", false
}

// Message is a visitor request sent from the public site, either a
// pre-inscription to one formation or a contact message.
// FormationNom is copied at write time so the message survives the formation.
type Message struct {
	ID             int64
	Type           MessageType
	Nom            string
	Email          string
	Telephone      string
	Ville          string
	Sujet          string
	Disponibilites string
	Contenu        string
	FormationID    *int64
	FormationNom   string
	SourceVisite   string
	AdresseIP      string
	UserAgent      string
	DateCreation   time.Time
}

// NewsletterSubscriber is one address on the newsletter list. Email is stored lower-cased.
type NewsletterSubscriber struct {
	ID              int64
	Email           string
	Nom             string
	DateInscription time.Time
}
