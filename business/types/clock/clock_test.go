package clock_test

import (
	"testing"

	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tm, err := clock.Parse("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, tm.Minutes())
	assert.Equal(t, "09:30", tm.String())

	_, err = clock.Parse("24:00")
	assert.Error(t, err)

	_, err = clock.Parse("09:60")
	assert.Error(t, err)

	_, err = clock.Parse("banana")
	assert.Error(t, err)
}

func TestFromMinutes(t *testing.T) {
	tm, err := clock.FromMinutes(1439)
	require.NoError(t, err)
	assert.Equal(t, "23:59", tm.String())

	_, err = clock.FromMinutes(1440)
	assert.Error(t, err)

	_, err = clock.FromMinutes(-1)
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	a := clock.MustParse("09:00")
	b := clock.MustParse("09:30")

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, a.Add(30).Equal(b))
}
