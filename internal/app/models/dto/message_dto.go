package dto

import (
	"strings"
	"time"

	"github.com/institut/vitrine/internal/app/models"
)

// PreInscriptionRequest is the payload of POST /messages/pre-inscription
type PreInscriptionRequest struct {
	Nom            string `json:"nom" validate:"required,max=100" example:"Awa Diop"`
	Email          string `json:"email" validate:"required,email,max=150" example:"awa@example.com"`
	Telephone      string `json:"telephone,omitempty" validate:"omitempty,phone" example:"+221771234567"`
	Ville          string `json:"ville,omitempty" validate:"max=50" example:"Dakar"`
	Disponibilites string `json:"disponibilites,omitempty" validate:"max=500" example:"En semaine après 17h"`
	Message        string `json:"message" validate:"required,max=2000"`
	FormationID    int64  `json:"formationId" validate:"required,gt=0" example:"12"`
	SourceVisite   string `json:"sourceVisite,omitempty" validate:"max=50" example:"site"`
	// AdresseIP and UserAgent are filled from the request when left blank
	AdresseIP string `json:"adresseIP,omitempty" validate:"max=45"`
	UserAgent string `json:"userAgent,omitempty" validate:"max=500"`
}

// ContactRequest is the payload of POST /messages/contact
type ContactRequest struct {
	Nom          string `json:"nom" validate:"required,min=2,max=100" example:"Awa Diop"`
	Email        string `json:"email" validate:"required,email,max=150" example:"awa@example.com"`
	Telephone    string `json:"telephone,omitempty" validate:"omitempty,phone"`
	Ville        string `json:"ville,omitempty" validate:"max=50"`
	Sujet        string `json:"sujet,omitempty" validate:"max=100" example:"Horaires"`
	Message      string `json:"message" validate:"required,min=10,max=2000"`
	FormationNom string `json:"formationNom,omitempty" validate:"max=200"`
	FormationID  *int64 `json:"formationId,omitempty" validate:"omitempty,gt=0"`
	SourceVisite string `json:"sourceVisite,omitempty" validate:"max=50"`
	AdresseIP    string `json:"adresseIP,omitempty" validate:"max=45"`
	UserAgent    string `json:"userAgent,omitempty" validate:"max=500"`
}

// MessageDto is the wire form of a stored message
type MessageDto struct {
	ID             int64              `json:"id" example:"3"`
	Type           models.MessageType `json:"type" example:"PRE_INSCRIPTION"`
	Nom            string             `json:"nom"`
	Email          string             `json:"email"`
	Telephone      string             `json:"telephone,omitempty"`
	Ville          string             `json:"ville,omitempty"`
	Sujet          string             `json:"sujet,omitempty"`
	Disponibilites string             `json:"disponibilites,omitempty"`
	Message        string             `json:"message"`
	FormationID    *int64             `json:"formationId,omitempty"`
	FormationNom   string             `json:"formationNom,omitempty"`
	SourceVisite   string             `json:"sourceVisite,omitempty"`
	DateCreation   time.Time          `json:"dateCreation"`
}

// NewsletterSubscribeRequest is the payload of POST /newsletter/subscribe
type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=150" example:"awa@example.com"`
	Nom   string `json:"nom,omitempty" validate:"max=100"`
}

// ToModel copies the request into a new pre-inscription message.
func (r PreInscriptionRequest) ToModel() *models.Message {
	id := r.FormationID
	return &models.Message{
		Type:           models.MessagePreInscription,
		Nom:            strings.TrimSpace(r.Nom),
		Email:          strings.TrimSpace(r.Email),
		Telephone:      strings.TrimSpace(r.Telephone),
		Ville:          strings.TrimSpace(r.Ville),
		Disponibilites: strings.TrimSpace(r.Disponibilites),
		Contenu:        strings.TrimSpace(r.Message),
		FormationID:    &id,
		SourceVisite:   r.SourceVisite,
		AdresseIP:      r.AdresseIP,
		UserAgent:      r.UserAgent,
	}
}

// ToModel copies the request into a new contact message.
func (r ContactRequest) ToModel() *models.Message {
	return &models.Message{
		Type:         models.MessageContact,
		Nom:          strings.TrimSpace(r.Nom),
		Email:        strings.TrimSpace(r.Email),
		Telephone:    strings.TrimSpace(r.Telephone),
		Ville:        strings.TrimSpace(r.Ville),
		Sujet:        strings.TrimSpace(r.Sujet),
		Contenu:      strings.TrimSpace(r.Message),
		FormationID:  r.FormationID,
		FormationNom: strings.TrimSpace(r.FormationNom),
		SourceVisite: r.SourceVisite,
		AdresseIP:    r.AdresseIP,
		UserAgent:    r.UserAgent,
	}
}

func NewMessageDto(m *models.Message) MessageDto {
	return MessageDto{
		ID:             m.ID,
		Type:           m.Type,
		Nom:            m.Nom,
		Email:          m.Email,
		Telephone:      m.Telephone,
		Ville:          m.Ville,
		Sujet:          m.Sujet,
		Disponibilites: m.Disponibilites,
		Message:        m.Contenu,
		FormationID:    m.FormationID,
		FormationNom:   m.FormationNom,
		SourceVisite:   m.SourceVisite,
		DateCreation:   m.DateCreation,
	}
}
