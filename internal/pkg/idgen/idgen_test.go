package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID(idgen.PrefixCharacter)

	id := gen.Generate()
	require.True(t, strings.HasPrefix(id, "char_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "char_"))
	assert.NoError(t, err)
	assert.NotEqual(t, id, gen.Generate())
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("draft")
	assert.Equal(t, "draft_1", gen.Generate())
	assert.Equal(t, "draft_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}
