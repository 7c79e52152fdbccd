// Package domain contains core domain types for the carbon ledger service.
package domain

import (
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single chatbot exchange entry.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionState holds the mutable per-session dashboard state.
type SessionState struct {
	CarbonCredits float64        `json:"carbon_credits"`
	VirtualTrees  int            `json:"virtual_trees"`
	Challenges    []string       `json:"challenges"`
	ChatHistory   []ChatMessage  `json:"chat_history"`
	Listings      []TradeListing `json:"listings"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewSessionState returns a state initialized with the given credit allotment.
func NewSessionState(initialCredits float64) *SessionState {
	now := time.Now()
	return &SessionState{
		CarbonCredits: initialCredits,
		Challenges:    []string{},
		ChatHistory:   []ChatMessage{},
		Listings:      []TradeListing{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy so callers can mutate it without touching stored state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	c := *s
	c.Challenges = append(make([]string, 0, len(s.Challenges)), s.Challenges...)
	c.ChatHistory = append(make([]ChatMessage, 0, len(s.ChatHistory)), s.ChatHistory...)
	c.Listings = append(make([]TradeListing, 0, len(s.Listings)), s.Listings...)
	return &c
}

// Normalize replaces nil collections with empty ones, e.g. after decoding old rows.
func (s *SessionState) Normalize() {
	if s.Challenges == nil {
		s.Challenges = []string{}
	}
	if s.ChatHistory == nil {
		s.ChatHistory = []ChatMessage{}
	}
	if s.Listings == nil {
		s.Listings = []TradeListing{}
	}
}
