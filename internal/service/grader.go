package service

import (
	"bytes"
	"encoding/json"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"strconv"
	"strings"
)

// OptionChoice 学生提交的选项下标，可以是数字、数字字符串或 null
type OptionChoice struct {
	Index *int
}

func Choice(i int) OptionChoice { return OptionChoice{Index: &i} }

func (o OptionChoice) Answered() bool { return o.Index != nil }

func (o *OptionChoice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		o.Index = nil
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var s string
	switch v := raw.(type) {
	case float64:
		s = string(data)
	case string:
		s = strings.TrimSpace(v)
	default:
		return util.Validation("answer must be an option index or null, got %s", string(data))
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return util.Validation("answer %s is not an integer option index", string(data))
	}
	o.Index = &i
	return nil
}

func (o OptionChoice) MarshalJSON() ([]byte, error) {
	if o.Index == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(*o.Index)), nil
}

// Grading 一次评分的结果
type Grading struct {
	Score      int
	TotalMarks int
	Answers    []model.ResultAnswer
}

// Grade 按位置比较作答与正确选项。答案不足的题视为未作答，多出的答案忽略
func Grade(questions []model.TestQuestion, answers []OptionChoice) Grading {
	g := Grading{
		TotalMarks: len(questions),
		Answers:    make([]model.ResultAnswer, len(questions)),
	}
	for i, q := range questions {
		ans := model.ResultAnswer{Position: i, QuestionID: q.ID}
		if i < len(answers) && answers[i].Answered() {
			selected := *answers[i].Index
			ans.SelectedOption = &selected
			if selected == q.CorrectOptionIndex {
				g.Score++
			}
		}
		g.Answers[i] = ans
	}
	return g
}
