package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryPolicy(t *testing.T) {
	p := BinaryPolicy{}
	assert.Equal(t, LabelDelay, p.Recommend(0.51))
	assert.Equal(t, LabelTakeEarly, p.Recommend(0.5), "exactly even is not enough")
	assert.Equal(t, LabelTakeEarly, p.Recommend(0))
}

func TestTieredPolicy(t *testing.T) {
	p := TieredPolicy{}
	assert.Equal(t, LabelDelay, p.Recommend(0.61))
	assert.Equal(t, LabelConsiderDelay, p.Recommend(0.6))
	assert.Equal(t, LabelConsiderDelay, p.Recommend(0.55))
	assert.Equal(t, LabelTakeEarly, p.Recommend(0.5))
}

func TestPolicyByName(t *testing.T) {
	for name, expected := range map[string]string{
		"":           "binary",
		"binary":     "binary",
		" Tiered ":   "tiered",
		"three-tier": "tiered",
	} {
		p, err := PolicyByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, p.Name())
	}

	_, err := PolicyByName("coinflip")
	assert.ErrorContains(t, err, "unknown recommendation policy")
}

func TestRationale(t *testing.T) {
	msg := Rationale(81, true, "poor", 0.41896)
	assert.Equal(t, "To benefit from delaying, you must live past age 81. "+
		"Given your poor health, you have a 41.9% probability of reaching this milestone.", msg)

	msg = Rationale(105, false, "average", 0.0018)
	assert.Contains(t, msg, "before age 105")
	assert.Contains(t, msg, "0.2%")
}
