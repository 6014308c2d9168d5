package mcq

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursedesk/core"
)

type repoMock struct {
	mcqs []MCQ
}

func (r *repoMock) QueryMCQs(context.Context) ([]MCQ, error) { return r.mcqs, nil }

func (r *repoMock) CreateMCQ(_ context.Context, q MCQ) (MCQ, error) {
	q.ID = int64(len(r.mcqs) + 1)
	r.mcqs = append(r.mcqs, q)
	return q, nil
}

func (r *repoMock) DeleteMCQ(context.Context, int64) error { return ErrNotFound }

func TestService_Query(t *testing.T) {
	repo := &repoMock{mcqs: []MCQ{{ID: 1, Question: "2+2?", Options: Options{A: "3", B: "4", C: "5", D: "6"}, CorrectAnswer: "B"}}}
	svc := NewService(repo)
	ctx := context.Background()

	public, err := svc.Query(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "B", public[0].CorrectAnswer)

	hidden, err := svc.Query(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, hidden[0].CorrectAnswer)
	assert.Equal(t, "B", repo.mcqs[0].CorrectAnswer, "stored MCQ untouched")
}

func TestNewMCQ_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	var nq NewMCQ
	nq.Question = " 2+2? "
	nq.Options.A, nq.Options.B, nq.Options.C, nq.Options.D = "3", "4", "5", "6"
	nq.CorrectAnswer = "E"
	assert.Error(t, nq.Validate(validate))

	nq.CorrectAnswer = " B "
	require.NoError(t, nq.Validate(validate))
	assert.Equal(t, MCQ{Question: "2+2?", Options: Options{A: "3", B: "4", C: "5", D: "6"}, CorrectAnswer: "B"}, nq.MCQ())

	nq.Options.C = ""
	assert.Error(t, nq.Validate(validate))
}
