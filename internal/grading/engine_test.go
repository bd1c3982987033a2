package grading

import (
	"testing"

	"github.com/npthao/examhub/internal/model"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func mcQuestion(correctUID string, extraUIDs ...string) *model.Question {
	q := &model.Question{
		QuestionType: model.QuestionTypeMultipleChoice,
		Options: []model.QuestionOption{
			{OptionUID: correctUID, IsCorrect: true},
		},
	}
	for _, uid := range extraUIDs {
		q.Options = append(q.Options, model.QuestionOption{OptionUID: uid})
	}
	return q
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name        string
		question    *model.Question
		rawAnswer   string
		slotPoints  float64
		wantCorrect bool
		wantPoints  float64
	}{
		{
			name:        "multiple choice correct option",
			question:    mcQuestion("opt-a", "opt-b", "opt-c"),
			rawAnswer:   "opt-a",
			slotPoints:  2,
			wantCorrect: true,
			wantPoints:  2,
		},
		{
			name:        "multiple choice wrong option",
			question:    mcQuestion("opt-a", "opt-b"),
			rawAnswer:   "opt-b",
			slotPoints:  2,
			wantCorrect: false,
			wantPoints:  0,
		},
		{
			name:        "multiple choice answer trimmed before comparison",
			question:    mcQuestion("opt-a"),
			rawAnswer:   "  opt-a  ",
			slotPoints:  1,
			wantCorrect: true,
			wantPoints:  1,
		},
		{
			name: "multiple choice with no correct option never matches",
			question: &model.Question{
				QuestionType: model.QuestionTypeMultipleChoice,
				Options: []model.QuestionOption{
					{OptionUID: "opt-a"},
					{OptionUID: "opt-b"},
				},
			},
			rawAnswer:   "opt-a",
			slotPoints:  1,
			wantCorrect: false,
			wantPoints:  0,
		},
		{
			name: "self write case insensitive match",
			question: &model.Question{
				QuestionType: model.QuestionTypeSelfWrite,
				AnswerKey:    strPtr("Paris"),
			},
			rawAnswer:   "  pArIs ",
			slotPoints:  3,
			wantCorrect: true,
			wantPoints:  3,
		},
		{
			name: "self write mismatch",
			question: &model.Question{
				QuestionType: model.QuestionTypeSelfWrite,
				AnswerKey:    strPtr("Paris"),
			},
			rawAnswer:   "London",
			slotPoints:  3,
			wantCorrect: false,
			wantPoints:  0,
		},
		{
			name: "self write without answer key grades incorrect",
			question: &model.Question{
				QuestionType: model.QuestionTypeSelfWrite,
			},
			rawAnswer:   "anything",
			slotPoints:  1,
			wantCorrect: false,
			wantPoints:  0,
		},
		{
			name: "self write empty answer against empty key grades incorrect",
			question: &model.Question{
				QuestionType: model.QuestionTypeSelfWrite,
				AnswerKey:    strPtr(""),
			},
			rawAnswer:   "",
			slotPoints:  1,
			wantCorrect: false,
			wantPoints:  0,
		},
		{
			name: "unknown question type grades incorrect",
			question: &model.Question{
				QuestionType: "essay",
			},
			rawAnswer:   "some text",
			slotPoints:  5,
			wantCorrect: false,
			wantPoints:  0,
		},
		{
			name:        "zero slot points falls back to default",
			question:    mcQuestion("opt-a"),
			rawAnswer:   "opt-a",
			slotPoints:  0,
			wantCorrect: true,
			wantPoints:  DefaultSlotPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Grade(tt.question, tt.rawAnswer, tt.slotPoints)
			assert.Equal(t, tt.wantCorrect, res.IsCorrect)
			assert.Equal(t, tt.wantPoints, res.PointsAwarded)
		})
	}
}

func TestEffectivePoints(t *testing.T) {
	assert.Equal(t, 2.5, EffectivePoints(2.5))
	assert.Equal(t, DefaultSlotPoints, EffectivePoints(0))
	assert.Equal(t, DefaultSlotPoints, EffectivePoints(-1))
}
