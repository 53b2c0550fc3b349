package httpapi_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-hq/clearline/pkg/httpapi"
)

func TestOptional_DistinguishesAbsentNullAndValue(t *testing.T) {
	t.Parallel()

	type payload struct {
		Target httpapi.Optional[string] `json:"target"`
	}

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.Target.Set)
	})

	t.Run("null", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"target":null}`), &p))
		assert.True(t, p.Target.Set)
		assert.Nil(t, p.Target.Value)
	})

	t.Run("value", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"target":"100.5"}`), &p))
		assert.True(t, p.Target.Set)
		require.NotNil(t, p.Target.Value)
		assert.Equal(t, "100.5", *p.Target.Value)
	})

	t.Run("wrong type errors", func(t *testing.T) {
		t.Parallel()
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"target":12}`), &p))
	})
}
