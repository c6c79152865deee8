package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string `json:"title" binding:"required"`
	Contact  string `json:"contact" binding:"required,email"`
	Priority int    `json:"priority" binding:"required,gte=1,lte=4"`
}

func TestFieldErrors(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	t.Run("uses json tag names and readable messages", func(t *testing.T) {
		err := v.Struct(&sampleRequest{Contact: "not-an-email", Priority: 9})
		require.Error(t, err)

		details := FieldErrors(err)

		byField := make(map[string]string, len(details))
		for _, d := range details {
			byField[d.Field] = d.Message
		}

		assert.Equal(t, "This field is required", byField["title"])
		assert.Equal(t, "Invalid email format", byField["contact"])
		assert.Equal(t, "Must be less than or equal to 4", byField["priority"])
	})

	t.Run("falls back to a body entry for non-validation errors", func(t *testing.T) {
		details := FieldErrors(errors.New("unexpected EOF"))
		require.Len(t, details, 1)
		assert.Equal(t, "body", details[0].Field)
	})
}
