package daterange

import (
	"testing"
	"time"

	"github.com/matst80/slask-filters/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	start, end *time.Time
}

func recorder() (*[]call, NotifyFunc) {
	calls := &[]call{}
	return calls, func(start, end *time.Time) {
		*calls = append(*calls, call{start, end})
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelectNotifiesHost(t *testing.T) {
	calls, fn := recorder()
	m := NewMachine(fn)

	m.Select(types.NewSelectionRange(day(2024, 1, 1), day(2024, 1, 31)))

	require.Len(t, *calls, 1)
	assert.Equal(t, day(2024, 1, 1), *(*calls)[0].start)
	assert.Equal(t, day(2024, 1, 31), *(*calls)[0].end)
	assert.Equal(t, Complete, m.State())
}

func TestSelectWithoutBoundsNotifiesNil(t *testing.T) {
	calls, fn := recorder()
	m := NewMachine(fn)
	m.Select(types.SelectionRange{})

	require.Len(t, *calls, 1)
	assert.Nil(t, (*calls)[0].start)
	assert.Nil(t, (*calls)[0].end)
	assert.Equal(t, Empty, m.State())
}

func TestResetFromEveryState(t *testing.T) {
	start := day(2024, 3, 1)
	for _, initial := range []types.SelectionRange{
		{},
		{StartDate: &start},
		types.NewSelectionRange(start, day(2024, 3, 5)),
	} {
		calls, fn := recorder()
		m := NewMachine(fn)
		m.Select(initial)
		m.Reset()

		assert.True(t, m.Selection().IsEmpty())
		assert.Equal(t, Empty, m.State())
		last := (*calls)[len(*calls)-1]
		assert.Nil(t, last.start)
		assert.Nil(t, last.end)
	}
}

func TestClickProgression(t *testing.T) {
	m := NewMachine(nil)
	m.Click(day(2024, 5, 10))
	assert.Equal(t, Selecting, m.State())

	m.Click(day(2024, 5, 3))
	require.Equal(t, Complete, m.State())
	assert.Equal(t, day(2024, 5, 3), *m.Selection().StartDate)
	assert.Equal(t, day(2024, 5, 10), *m.Selection().EndDate)

	m.Click(day(2024, 6, 1))
	assert.Equal(t, Selecting, m.State())
	assert.Nil(t, m.Selection().EndDate)
}

func TestClickAfterMaxDateIgnored(t *testing.T) {
	calls, fn := recorder()
	m := NewMachine(fn, WithMaxDate(func() time.Time { return day(2024, 1, 15) }))

	m.Click(day(2024, 1, 16))
	assert.Empty(t, *calls)
	assert.Equal(t, Empty, m.State())

	m.Click(time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, Selecting, m.State())
}

func TestMaxDateComparedInZoneOfDay(t *testing.T) {
	// 22:00 on the 30th at UTC-5 is already the 31st in UTC
	east := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2024, 1, 30, 22, 0, 0, 0, east)
	m := NewMachine(nil, WithMaxDate(func() time.Time { return now }))

	m.Click(day(2024, 1, 31))
	require.Equal(t, Selecting, m.State())
	assert.Equal(t, day(2024, 1, 31), *m.Selection().StartDate)

	m.Reset()
	m.Click(day(2024, 2, 1))
	assert.Equal(t, Empty, m.State())
}

func TestSelectionIsCopied(t *testing.T) {
	m := NewMachine(nil)
	start := day(2024, 1, 1)
	end := day(2024, 1, 2)
	m.Select(types.SelectionRange{StartDate: &start, EndDate: &end})
	start = day(2030, 1, 1)
	assert.Equal(t, day(2024, 1, 1), *m.Selection().StartDate)
}
