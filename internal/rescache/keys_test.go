package rescache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeysAreDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SearchKey("sunflowers", true), SearchKey("sunflowers", true))
	assert.Equal(t, PeriodKey([]int{11, 21}, 1400, 1600, true), PeriodKey([]int{11, 21}, 1400, 1600, true))
}

func TestKeysDistinguishParameters(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, SearchKey("sunflowers", true), SearchKey("sunflowers", false))
	assert.NotEqual(t, SearchKey("sunflowers", true), SearchKey("irises", true))
	assert.NotEqual(t,
		PeriodKey([]int{11}, 1400, 1600, true),
		PeriodKey([]int{11}, 1400, 1700, true))
}

func TestKeyPrefixes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "object:436535", ObjectKey(436535))
	assert.Contains(t, SearchKey("x", true), "search:")
	assert.Contains(t, PeriodKey(nil, 0, 100, false), "period:")
	assert.Equal(t, "timeline:modern", TimelineKey("modern"))
}
