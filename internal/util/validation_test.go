package util

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sampleReq struct {
	CourseID string `validate:"required"`
	Email    string `validate:"email"`
}

func TestValidationMessage(t *testing.T) {
	err := validator.New().Struct(sampleReq{Email: "nope"})

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "CourseID is required")
	assert.Contains(t, msg, "Email must be a valid email")
}
