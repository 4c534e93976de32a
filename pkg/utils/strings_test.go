package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CompactStrings([]string{" a ", "", "  ", "b"}))
	assert.Nil(t, CompactStrings(nil))
}
