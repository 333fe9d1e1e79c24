// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Answer is a user's reply to a question card, keyed by the card's
// persistent question ID.
type Answer struct {
	QuestionID string    `json:"question_id" yaml:"question_id"`
	Answer     string    `json:"answer" yaml:"answer"`
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	Skill      SkillKind `json:"skill,omitempty" yaml:"skill,omitempty"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}
