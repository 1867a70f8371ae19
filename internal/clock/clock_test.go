package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMillis(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	NowFunc = func() time.Time { return time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, uint64(1483228800000), Millis())
	assert.Equal(t, uint64(1483228800), Seconds())
}

func TestUnit(t *testing.T) {
	for _, name := range []string{"", "ms", "s", "seconds"} {
		fn, ok := Unit(name)
		assert.True(t, ok, name)
		assert.NotNil(t, fn, name)
	}
	_, ok := Unit("fortnight")
	assert.False(t, ok)
}

func TestScript(t *testing.T) {
	fn := Script(5, 6, 7)
	assert.Equal(t, []uint64{5, 6, 7, 7}, []uint64{fn(), fn(), fn(), fn()})
	assert.Equal(t, uint64(0), Script()())
}

func TestManual(t *testing.T) {
	m := NewManual(10)
	assert.Equal(t, uint64(10), m.Now())
	m.Advance(5)
	assert.Equal(t, uint64(15), m.Now())
	m.Set(3)
	assert.Equal(t, uint64(3), m.Now())
}
