package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMintReference(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := mintReference()
		assert.True(t, strings.HasPrefix(ref, "AJO-"))
		assert.Len(t, ref, 28)
		assert.Equal(t, strings.ToUpper(ref), ref)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
