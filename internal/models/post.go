package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post length limits enforced on submission
const (
	MaxMessageLength  = 256
	MaxUsernameLength = 64
)

// Classification states stored in Post.MisinfoState
const (
	MisinfoStateFactual = 0
	MisinfoStateFlagged = 1
)

// Post is a single user submission in the feed
type Post struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	Username string    `gorm:"size:64;not null;index" json:"username"`
	Date     time.Time `gorm:"not null;index" json:"date"`

	// Classifier output. Nil means the post has not been classified yet.
	MisinfoState *int     `json:"misinfo_state,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

// BeforeCreate assigns an id and timestamp when the caller left them empty
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	return nil
}

// Classified reports whether a classification state is present
func (p Post) Classified() bool {
	return p.MisinfoState != nil
}

// PotentialMisinformation reports whether the classifier flagged the post
func (p Post) PotentialMisinformation() bool {
	return p.MisinfoState != nil && *p.MisinfoState == MisinfoStateFlagged
}

// ValidatePostInput checks message and username against the submission limits.
// It returns the offending field name and a reason, or empty strings.
func ValidatePostInput(message, username string) (field, reason string) {
	switch n := utf8.RuneCountInString(message); {
	case n == 0:
		return "message", "Message cannot be empty."
	case n > MaxMessageLength:
		return "message", "Message cannot have more than 256 characters."
	}
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		return "username", "Username cannot be empty."
	case n > MaxUsernameLength:
		return "username", "Username cannot have more than 64 characters."
	}
	return "", ""
}
