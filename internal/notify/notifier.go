package notify

import (
	"context"
	"fmt"
)

// Notifier receives domain events and delivers them best-effort.
// Implementations must not block the caller on delivery and never report failures.
type Notifier interface {
	Notify(ctx context.Context, channel string, payload map[string]any)
}

// Nop drops every event; used when realtime delivery is not configured.
type Nop struct{}

func (Nop) Notify(context.Context, string, map[string]any) {}

// Event types published on the realtime channels.
const (
	EventNewAnswer     = "new_answer"
	EventCorrectAnswer = "correct_answer"
	EventQuestionLike  = "question_like"
	EventAnswerLike    = "answer_like"
)

// QuestionChannel carries answer events for one question page.
func QuestionChannel(questionID string) string { return fmt.Sprintf("question_%s", questionID) }

// LikesChannel carries like events for a question and its answers.
func LikesChannel(questionID string) string { return fmt.Sprintf("likes_%s", questionID) }
