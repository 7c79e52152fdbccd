package domain

import "testing"

func TestNewSessionStateDefaults(t *testing.T) {
	s := NewSessionState(4.0)

	if s.CarbonCredits != 4.0 {
		t.Errorf("expected 4.0 credits, got %v", s.CarbonCredits)
	}
	if s.VirtualTrees != 0 {
		t.Errorf("expected 0 trees, got %d", s.VirtualTrees)
	}
	if s.Challenges == nil || len(s.Challenges) != 0 {
		t.Errorf("expected empty challenges, got %v", s.Challenges)
	}
	if s.ChatHistory == nil || len(s.ChatHistory) != 0 {
		t.Errorf("expected empty chat history, got %v", s.ChatHistory)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSessionState(4.0)
	s.Challenges = append(s.Challenges, "bike to work")
	s.ChatHistory = append(s.ChatHistory, ChatMessage{Role: RoleUser, Content: "hi"})

	c := s.Clone()
	c.CarbonCredits = 1
	c.Challenges[0] = "changed"
	c.ChatHistory = append(c.ChatHistory, ChatMessage{Role: RoleAssistant, Content: "hello"})

	if s.CarbonCredits != 4.0 {
		t.Errorf("source credits mutated: %v", s.CarbonCredits)
	}
	if s.Challenges[0] != "bike to work" {
		t.Errorf("source challenges mutated: %v", s.Challenges)
	}
	if len(s.ChatHistory) != 1 {
		t.Errorf("source history mutated: %v", s.ChatHistory)
	}
}

func TestNormalizeFillsNilCollections(t *testing.T) {
	s := &SessionState{}
	s.Normalize()
	if s.Challenges == nil || s.ChatHistory == nil || s.Listings == nil {
		t.Fatalf("expected non-nil collections after Normalize: %+v", s)
	}
}
