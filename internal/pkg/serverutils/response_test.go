package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type reserveForm struct {
	Email      string `json:"email" validate:"required,email"`
	SlotNumber int    `json:"slot_number" validate:"required,min=1"`
}

func TestValidateRequest(t *testing.T) {
	t.Run("Valid Payload", func(t *testing.T) {
		err := ValidateRequest(reserveForm{Email: "trader@example.com", SlotNumber: 3})
		assert.NoError(t, err)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		err := ValidateRequest(reserveForm{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Email")
		assert.Contains(t, err.Error(), "SlotNumber")
	})

	t.Run("Bad Email", func(t *testing.T) {
		err := ValidateRequest(reserveForm{Email: "not-an-email", SlotNumber: 1})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Email")
	})
}

func TestResponseEnvelopes(t *testing.T) {
	ok := SuccessResponse("Slot reserved", map[string]int{"slot_number": 3})
	assert.True(t, ok.Success)
	assert.Equal(t, "Slot reserved", ok.Message)

	bad := ErrorResponse(404, "Group not found")
	assert.False(t, bad.Success)
	assert.Equal(t, 404, bad.Code)
	assert.Equal(t, "Group not found", bad.Message)
}
