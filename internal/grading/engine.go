// Package grading decides correctness and points for a submitted answer.
// It has no persistence and no side effects so the rules can be tested in
// isolation from the attempt lifecycle.
package grading

import (
	"strings"

	"github.com/npthao/examhub/internal/model"
)

// DefaultSlotPoints applies when a slot's configured weight is absent or zero.
const DefaultSlotPoints = 1.0

type Result struct {
	IsCorrect     bool
	PointsAwarded float64
}

// EffectivePoints normalizes a slot's configured weight.
func EffectivePoints(slotPoints float64) float64 {
	if slotPoints <= 0 {
		return DefaultSlotPoints
	}
	return slotPoints
}

// Grade evaluates rawAnswer against the question's answer data.
//
// Multiple choice: correct iff the trimmed answer equals the OptionUID of
// the first option flagged correct. Self write: trim plus case-insensitive
// match against the stored answer key. Any other type has no matcher and
// grades incorrect.
func Grade(q *model.Question, rawAnswer string, slotPoints float64) Result {
	points := EffectivePoints(slotPoints)
	correct := false

	switch q.QuestionType {
	case model.QuestionTypeMultipleChoice:
		correctUID := ""
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correctUID = opt.OptionUID
				break
			}
		}
		if correctUID != "" && strings.TrimSpace(rawAnswer) == strings.TrimSpace(correctUID) {
			correct = true
		}
	case model.QuestionTypeSelfWrite:
		if q.AnswerKey != nil && *q.AnswerKey != "" &&
			strings.EqualFold(strings.TrimSpace(rawAnswer), strings.TrimSpace(*q.AnswerKey)) {
			correct = true
		}
	}

	res := Result{IsCorrect: correct}
	if correct {
		res.PointsAwarded = points
	}
	return res
}
