// models/suggestion.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Suggestion types
const (
	TypeSuggestion   = "sugerencia"
	TypeComplaint    = "queja"
	TypeCommendation = "felicitacion"
	TypeReport       = "reporte"
)

// Severity levels derived from the offensive-word match count
const (
	SeverityMild     = "leve"
	SeverityModerate = "moderado"
	SeveritySevere   = "grave"
)

// Workflow statuses
const (
	StatusPending       = "pendiente"
	StatusInReview      = "en_revision"
	StatusInvestigation = "investigacion"
	StatusResolved      = "resuelto"
	StatusClosed        = "cerrado"
)

// WordList stores the matched offensive words as a JSON array in a text
// column so the scan order (subject first, then message) survives round-trips.
type WordList []string

func (w WordList) Value() (driver.Value, error) {
	if w == nil {
		w = WordList{}
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (w *WordList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return fmt.Errorf("cannot scan %T into WordList", value)
	}
}

// Suggestion represents the suggestions table
type Suggestion struct {
	SuggestionID        uint       `gorm:"primaryKey;column:suggestion_id" json:"suggestion_id"`
	Folio               string     `gorm:"column:folio;size:36;uniqueIndex" json:"folio"`
	Email               string     `gorm:"column:email;size:150;index" json:"email"`
	Type                string     `gorm:"column:type;size:20;default:sugerencia" json:"type"`
	Subject             string     `gorm:"column:subject;size:100" json:"subject"`
	Message             string     `gorm:"column:message;size:1000" json:"message"`
	HasOffensiveContent bool       `gorm:"column:has_offensive_content;index" json:"has_offensive_content"`
	OffensiveWords      WordList   `gorm:"column:offensive_words;type:text" json:"offensive_words"`
	Severity            *string    `gorm:"column:severity;size:10;index" json:"severity"`
	Status              string     `gorm:"column:status;size:20;default:pendiente;index" json:"status"`
	Reviewed            bool       `gorm:"column:reviewed" json:"reviewed"`
	ReviewedBy          *string    `gorm:"column:reviewed_by;size:150" json:"reviewed_by"`
	ReviewedAt          *time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
	Notes               string     `gorm:"column:notes;type:text" json:"notes"`
	RequiresMeeting     bool       `gorm:"column:requires_meeting" json:"requires_meeting"`
	MeetingScheduled    *time.Time `gorm:"column:meeting_scheduled" json:"meeting_scheduled"`
	IPAddress           *string    `gorm:"column:ip_address;size:64" json:"ip_address,omitempty"`
	UserAgent           *string    `gorm:"column:user_agent;size:255" json:"user_agent,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Suggestion) TableName() string { return "suggestions" }

// BeforeCreate assigns the public reference number handed back to submitters.
func (s *Suggestion) BeforeCreate(tx *gorm.DB) error {
	if s.Folio == "" {
		s.Folio = uuid.NewString()
	}
	return nil
}

// StudentName derives a display name from the institutional email local part.
func (s *Suggestion) StudentName() string {
	if s.Email == "" {
		return "Desconocido"
	}
	username := strings.SplitN(s.Email, "@", 2)[0]
	replacer := strings.NewReplacer(".", " ", "_", " ", "-", " ")
	return strings.ToUpper(replacer.Replace(username))
}

// GetTypeName returns the display label for the suggestion type
func (s *Suggestion) GetTypeName() string {
	switch s.Type {
	case TypeSuggestion:
		return "Sugerencia"
	case TypeComplaint:
		return "Queja"
	case TypeCommendation:
		return "Felicitación"
	case TypeReport:
		return "Reporte"
	default:
		return s.Type
	}
}

// GetStatusName returns the display label for the workflow status
func (s *Suggestion) GetStatusName() string {
	switch s.Status {
	case StatusPending:
		return "Pendiente"
	case StatusInReview:
		return "En revisión"
	case StatusInvestigation:
		return "En investigación"
	case StatusResolved:
		return "Resuelto"
	case StatusClosed:
		return "Cerrado"
	default:
		return s.Status
	}
}

// GetSeverityName returns the display label for the severity, empty when the
// suggestion carries no offensive content.
func (s *Suggestion) GetSeverityName() string {
	if s.Severity == nil {
		return ""
	}
	switch *s.Severity {
	case SeverityMild:
		return "Leve"
	case SeverityModerate:
		return "Moderado"
	case SeveritySevere:
		return "Grave"
	default:
		return *s.Severity
	}
}

// ===== Request/Response DTOs =====

// SuggestionCreateRequest is the public form payload
type SuggestionCreateRequest struct {
	Email   string `json:"email" binding:"required"`
	Type    string `json:"type" binding:"omitempty,oneof=sugerencia queja felicitacion reporte"`
	Subject string `json:"subject" binding:"required,max=100"`
	Message string `json:"message" binding:"required,max=1000"`
}

// SuggestionUpdateRequest carries the review/workflow fields an administrator
// may change. Everything else is immutable after creation.
type SuggestionUpdateRequest struct {
	Status        *string    `json:"status" binding:"omitempty,oneof=pendiente en_revision investigacion resuelto cerrado"`
	Notes         *string    `json:"notes"`
	ReviewerEmail *string    `json:"reviewer_email"`
	MeetingDate   *time.Time `json:"meeting_date"`
}

// SuggestionResponse for API responses
type SuggestionResponse struct {
	SuggestionID        uint       `json:"suggestion_id"`
	Folio               string     `json:"folio"`
	Email               string     `json:"email"`
	StudentName         string     `json:"student_name"`
	Type                string     `json:"type"`
	TypeName            string     `json:"type_name"`
	Subject             string     `json:"subject"`
	Message             string     `json:"message"`
	HasOffensiveContent bool       `json:"has_offensive_content"`
	OffensiveWords      []string   `json:"offensive_words"`
	Severity            *string    `json:"severity"`
	SeverityName        string     `json:"severity_name,omitempty"`
	Status              string     `json:"status"`
	StatusName          string     `json:"status_name"`
	Reviewed            bool       `json:"reviewed"`
	ReviewedBy          *string    `json:"reviewed_by"`
	ReviewedAt          *time.Time `json:"reviewed_at"`
	Notes               string     `json:"notes"`
	RequiresMeeting     bool       `json:"requires_meeting"`
	MeetingScheduled    *time.Time `json:"meeting_scheduled"`
	IPAddress           *string    `json:"ip_address,omitempty"`
	UserAgent           *string    `json:"user_agent,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ToResponse converts Suggestion to SuggestionResponse
func (s *Suggestion) ToResponse() SuggestionResponse {
	words := s.OffensiveWords
	if words == nil {
		words = WordList{}
	}
	return SuggestionResponse{
		SuggestionID:        s.SuggestionID,
		Folio:               s.Folio,
		Email:               s.Email,
		StudentName:         s.StudentName(),
		Type:                s.Type,
		TypeName:            s.GetTypeName(),
		Subject:             s.Subject,
		Message:             s.Message,
		HasOffensiveContent: s.HasOffensiveContent,
		OffensiveWords:      words,
		Severity:            s.Severity,
		SeverityName:        s.GetSeverityName(),
		Status:              s.Status,
		StatusName:          s.GetStatusName(),
		Reviewed:            s.Reviewed,
		ReviewedBy:          s.ReviewedBy,
		ReviewedAt:          s.ReviewedAt,
		Notes:               s.Notes,
		RequiresMeeting:     s.RequiresMeeting,
		MeetingScheduled:    s.MeetingScheduled,
		IPAddress:           s.IPAddress,
		UserAgent:           s.UserAgent,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
