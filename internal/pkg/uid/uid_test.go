package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	g := NewUUID()
	a, b := g.Generate(), g.Generate()

	assert.NotEqual(t, a, b)
	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestSnowflake(t *testing.T) {
	g, err := NewSnowflake()
	require.NoError(t, err)

	a, b := g.Generate(), g.Generate()
	assert.Positive(t, a)
	assert.Greater(t, b, a)

	_, err = NewSnowflakeNode(4096)
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	tok := NewToken(4)
	a := tok.Generate()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, tok.Generate())
	assert.Len(t, NewToken(32).Generate(), 64)
}
