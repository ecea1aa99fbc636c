package idgen_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		strategy string
		wantErr  bool
		check    func(t *testing.T, id string)
	}{
		{
			strategy: "ulid",
			check: func(t *testing.T, id string) {
				_, err := ulid.ParseStrict(id)
				assert.NoError(t, err)
			},
		},
		{
			strategy: "",
			check: func(t *testing.T, id string) {
				assert.Len(t, id, ulid.EncodedSize)
			},
		},
		{
			strategy: "uuid",
			check: func(t *testing.T, id string) {
				parsed, err := uuid.Parse(id)
				require.NoError(t, err)
				assert.Equal(t, uuid.Version(4), parsed.Version())
			},
		},
		{strategy: "snowflake", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			gen, err := idgen.New(tt.strategy)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, gen)
				return
			}
			require.NoError(t, err)
			tt.check(t, gen.NewID())
		})
	}
}

func TestGeneratorsAreUnique(t *testing.T) {
	for _, gen := range []idgen.Generator{idgen.ULID{}, idgen.UUID{}} {
		seen := make(map[string]struct{}, 1000)
		for i := 0; i < 1000; i++ {
			id := gen.NewID()
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	}
}

func TestSequence(t *testing.T) {
	gen := idgen.Sequence("set")
	assert.Equal(t, "set-1", gen.NewID())
	assert.Equal(t, "set-2", gen.NewID())
}
