package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₦5000.00", formatAmount(500000))
	assert.Equal(t, "₦5999.99", formatAmount(599999))
	assert.Equal(t, "₦0.05", formatAmount(5))
	assert.Equal(t, "₦0.00", formatAmount(0))
}
