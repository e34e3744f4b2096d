package emailutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "alice", LocalPart("alice@gmail.com"))
	assert.Equal(t, "", LocalPart("@gmail.com"))
	assert.Equal(t, "", LocalPart("no-at-sign"))
	assert.Equal(t, "", LocalPart(""))
}
