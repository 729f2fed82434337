package domain

import "time"

// Session is one therapeutic conversation.
// It is mutated in place by its current holder; no internal locking.
type Session struct {
	SessionID        string     `json:"session_id"`
	UserID           string     `json:"user_id"`
	Messages         []Message  `json:"messages"`
	TopicTags        []TopicTag `json:"topic_tags"`
	RiskLevel        RiskLevel  `json:"risk_level"`
	CoherenceHistory []float64  `json:"coherence_history"`
	Encrypted        bool       `json:"encrypted"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Message is a single turn in a session. Immutable once appended.
type Message struct {
	MessageID      string    `json:"message_id,omitempty"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	CoherenceScore *float64  `json:"coherence_score,omitempty"`
	Providers      []string  `json:"providers,omitempty"`
}

// NewSession returns an empty low-risk session.
func NewSession(sessionID, userID string) *Session {
	now := time.Now()
	return &Session{
		SessionID:        sessionID,
		UserID:           userID,
		Messages:         []Message{},
		TopicTags:        []TopicTag{},
		RiskLevel:        RiskLow,
		CoherenceHistory: []float64{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// AppendMessage adds a message to the end of the transcript.
func (s *Session) AppendMessage(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.Messages = append(s.Messages, msg)
}

// AddTags merges tags into the session's tag set, preserving first-seen order.
func (s *Session) AddTags(tags ...TopicTag) {
	for _, tag := range tags {
		if !s.HasTag(tag) {
			s.TopicTags = append(s.TopicTags, tag)
		}
	}
}

// HasTag reports whether the tag has been seen in this session.
func (s *Session) HasTag(tag TopicTag) bool {
	for _, t := range s.TopicTags {
		if t == tag {
			return true
		}
	}
	return false
}

// PushScore records a coherence score.
func (s *Session) PushScore(score float64) {
	s.CoherenceHistory = append(s.CoherenceHistory, score)
}

// AverageCoherence returns the mean of the coherence history, or 0 when empty.
func (s *Session) AverageCoherence() float64 {
	if len(s.CoherenceHistory) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.CoherenceHistory {
		sum += v
	}
	return sum / float64(len(s.CoherenceHistory))
}

// RecentMessages returns up to the last n messages. n <= 0 returns none.
func (s *Session) RecentMessages(n int) []Message {
	if s == nil || n <= 0 {
		return nil
	}
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
