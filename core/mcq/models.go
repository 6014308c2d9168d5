package mcq

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursedesk/core"
)

type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

type MCQ struct {
	ID            int64   `json:"id"`
	Question      string  `json:"question"`
	Options       Options `json:"options"`
	CorrectAnswer string  `json:"correctAnswer,omitempty"`
}

// WithoutAnswer returns a copy safe to show to quiz takers.
func (q MCQ) WithoutAnswer() MCQ {
	q.CorrectAnswer = ""
	return q
}

// NewMCQ contains information needed to create a new MCQ.
type NewMCQ struct {
	Question string `json:"question" validate:"required,notblank"`
	Options  struct {
		A string `json:"A" validate:"required,notblank"`
		B string `json:"B" validate:"required,notblank"`
		C string `json:"C" validate:"required,notblank"`
		D string `json:"D" validate:"required,notblank"`
	} `json:"options"`
	CorrectAnswer string `json:"correctAnswer" validate:"required,oneof=A B C D"`
}

func (nq *NewMCQ) Validate(validate *validator.Validate) error {
	nq.Question = core.CleanString(nq.Question)
	nq.Options.A = core.CleanString(nq.Options.A)
	nq.Options.B = core.CleanString(nq.Options.B)
	nq.Options.C = core.CleanString(nq.Options.C)
	nq.Options.D = core.CleanString(nq.Options.D)
	nq.CorrectAnswer = core.CleanString(nq.CorrectAnswer)
	return validate.Struct(nq)
}

func (nq NewMCQ) MCQ() MCQ {
	return MCQ{
		Question:      nq.Question,
		Options:       Options{A: nq.Options.A, B: nq.Options.B, C: nq.Options.C, D: nq.Options.D},
		CorrectAnswer: nq.CorrectAnswer,
	}
}
