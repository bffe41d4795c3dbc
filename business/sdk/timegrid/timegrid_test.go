package timegrid_test

import (
	"testing"

	"github.com/jcpaschoal/agendex/business/sdk/timegrid"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_FullDay(t *testing.T) {
	starts, err := timegrid.Generate(timegrid.Grid{
		Open:        clock.MustParse("09:00"),
		Close:       clock.MustParse("18:00"),
		StepMinutes: 30,
		SpanMinutes: 30,
	})
	require.NoError(t, err)

	require.Len(t, starts, 18)
	assert.Equal(t, "09:00", starts[0].String())
	assert.Equal(t, "17:30", starts[len(starts)-1].String())
}

func TestGenerate_SpanWiderThanStep(t *testing.T) {
	// Um serviço de 90 minutos numa grade de 30: o último início que ainda
	// cabe antes do fechamento é 16:30.
	starts, err := timegrid.Generate(timegrid.Grid{
		Open:        clock.MustParse("09:00"),
		Close:       clock.MustParse("18:00"),
		StepMinutes: 30,
		SpanMinutes: 90,
	})
	require.NoError(t, err)

	require.NotEmpty(t, starts)
	assert.Equal(t, "16:30", starts[len(starts)-1].String())
	assert.Len(t, starts, 16)
}

func TestGenerate_DayNotMultipleOfStep(t *testing.T) {
	// 09:00 to 17:50 with a 30 minute span: the 17:30 start would run past
	// closing and must not appear.
	starts, err := timegrid.Generate(timegrid.Grid{
		Open:        clock.MustParse("09:00"),
		Close:       clock.MustParse("17:50"),
		StepMinutes: 30,
		SpanMinutes: 30,
	})
	require.NoError(t, err)

	require.NotEmpty(t, starts)
	assert.Equal(t, "17:00", starts[len(starts)-1].String())
}

func TestGenerate_SpanLongerThanDay(t *testing.T) {
	starts, err := timegrid.Generate(timegrid.Grid{
		Open:        clock.MustParse("09:00"),
		Close:       clock.MustParse("10:00"),
		StepMinutes: 30,
		SpanMinutes: 120,
	})
	require.NoError(t, err)
	assert.Empty(t, starts)
}

func TestGenerate_Invalid(t *testing.T) {
	_, err := timegrid.Generate(timegrid.Grid{
		Open:        clock.MustParse("09:00"),
		Close:       clock.MustParse("18:00"),
		StepMinutes: 0,
		SpanMinutes: 30,
	})
	assert.Error(t, err)

	_, err = timegrid.Generate(timegrid.Grid{
		Open:        clock.MustParse("18:00"),
		Close:       clock.MustParse("09:00"),
		StepMinutes: 30,
		SpanMinutes: 30,
	})
	assert.Error(t, err)
}
