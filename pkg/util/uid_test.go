package util

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewUID_Unique(t *testing.T) {
	a, b := NewUID(), NewUID()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, UIDRoot))
	assert.LessOrEqual(t, len(a), 64)
}

func TestUIDFromUUID(t *testing.T) {
	u := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	assert.Equal(t, "2.25.10", UIDFromUUID(u))
}

func TestHashUID_Stable(t *testing.T) {
	a := HashUID(map[string]string{"sop": "1.2.3"})
	b := HashUID(map[string]string{"sop": "1.2.3"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, HashUID("1.2.4"))
	assert.Empty(t, HashUID(func() {}))
}
