package daydate_test

import (
	"testing"
	"time"

	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := daydate.Parse("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", d.String())

	_, err = daydate.Parse("01/03/2026")
	assert.Error(t, err)
}

func TestAddDays(t *testing.T) {
	// Month and year rollover normalize like time.Date.
	d := daydate.MustParse("2026-12-31").AddDays(1)
	assert.Equal(t, "2027-01-01", d.String())

	d = daydate.MustParse("2026-03-01").AddDays(-1)
	assert.Equal(t, "2026-02-28", d.String())
}

func TestFromTime_Location(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 23:30 em São Paulo já é o dia seguinte em UTC.
	moment := time.Date(2026, 3, 1, 23, 30, 0, 0, sp)

	assert.Equal(t, "2026-03-01", daydate.FromTime(moment).String())
	assert.Equal(t, "2026-03-02", daydate.FromTime(moment.UTC()).String())
}

func TestOrdering(t *testing.T) {
	a := daydate.MustParse("2026-03-01")
	b := daydate.MustParse("2026-03-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(daydate.MustParse("2026-03-01")))
}
