package service

import (
	"encoding/json"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQuestions() []model.TestQuestion {
	qs := make([]model.TestQuestion, 3)
	for i := range qs {
		qs[i] = model.TestQuestion{
			UUIDRecord:         model.UUIDRecord{ID: model.GenerateUUID()},
			Position:           i,
			QuestionText:       "q",
			Options:            []string{"a", "b", "c"},
			CorrectOptionIndex: i,
		}
	}
	return qs
}

func decodeAnswers(t *testing.T, raw string) []OptionChoice {
	t.Helper()
	var answers []OptionChoice
	require.NoError(t, json.Unmarshal([]byte(raw), &answers))
	return answers
}

func TestGradeScenarios(t *testing.T) {
	cases := []struct {
		name    string
		answers string
		score   int
	}{
		{"all correct", `[0,1,2]`, 3},
		{"one unanswered", `[0,null,2]`, 2},
		{"string indices", `["0","1","2"]`, 3},
		{"all null", `[null,null,null]`, 0},
		{"all wrong", `[2,0,1]`, 0},
		{"short answers", `[0]`, 1},
		{"extra answers ignored", `[0,1,2,0,1]`, 3},
		{"empty", `[]`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qs := threeQuestions()
			g := Grade(qs, decodeAnswers(t, tc.answers))

			assert.Equal(t, tc.score, g.Score)
			assert.Equal(t, 3, g.TotalMarks)
			require.Len(t, g.Answers, 3)
			for i, a := range g.Answers {
				assert.Equal(t, i, a.Position)
				assert.Equal(t, qs[i].ID, a.QuestionID)
			}
		})
	}
}

func TestGradeRecordsSelections(t *testing.T) {
	g := Grade(threeQuestions(), decodeAnswers(t, `[1,null]`))

	require.NotNil(t, g.Answers[0].SelectedOption)
	assert.Equal(t, 1, *g.Answers[0].SelectedOption)
	assert.Nil(t, g.Answers[1].SelectedOption)
	assert.Nil(t, g.Answers[2].SelectedOption)
}

func TestGradeWithoutQuestions(t *testing.T) {
	g := Grade(nil, []OptionChoice{Choice(0)})
	assert.Equal(t, 0, g.Score)
	assert.Equal(t, 0, g.TotalMarks)
	assert.Empty(t, g.Answers)
}

func TestOptionChoiceRejectsNonIntegers(t *testing.T) {
	for _, raw := range []string{`["abc"]`, `[1.5]`, `[true]`, `[{"i":1}]`} {
		var answers []OptionChoice
		err := json.Unmarshal([]byte(raw), &answers)
		require.Error(t, err, raw)
		assert.Equal(t, util.KindValidation, util.KindOf(err), raw)
	}
}

func TestOptionChoiceMarshal(t *testing.T) {
	out, err := json.Marshal([]OptionChoice{Choice(2), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[2,null]`, string(out))
}
