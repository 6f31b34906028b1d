package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mortti11/Marjetas-project/internal/models"
)

// dryingFixture builds a single-hour event at hour 0 whose first city-dry
// hour is firstDry, with damp (neither wet nor dry) hours in between.
func dryingFixture(firstDry int) []models.FlaggedRecord {
	records := []models.HourlyRecord{wetHour(0, 2.0)}
	for h := 1; h < firstDry; h++ {
		records = append(records, dampHour(h))
	}
	records = append(records, dryHour(firstDry))
	return flagAll(records)
}

func TestDryingAfterLongWetSpell(t *testing.T) {
	// One rainy hour, city drying conditions first met 47 hours later.
	flagged := dryingFixture(47)
	events := DetectEvents(Unflag(flagged), 0.2, 4)
	require.Len(t, events, 1)
	require.Equal(t, 1.0, events[0].DurationH)

	windows := BuildEventWindows(flagged, events, 6, 120)
	drying := ComputeEventDryingTimes(windows)
	require.Len(t, drying, 1)

	assert.InDelta(t, 47.0, drying[0].DryingHoursFromStart, 1e-9)
	assert.InDelta(t, 47.0, drying[0].DryingHoursFromEnd, 1e-9, "single-row event: end equals start")
	assert.Equal(t, drying[0].DryingHoursFromEnd, drying[0].DryingHours)
}

func TestDryingFromEndUsesElapsedTime(t *testing.T) {
	// Three wet hours then damp air until hour 10 dries. from_end must equal
	// from_start minus the elapsed (end - start) hours.
	records := []models.HourlyRecord{wetHour(0, 1.0), wetHour(1, 1.0), wetHour(2, 1.0)}
	for h := 3; h < 10; h++ {
		records = append(records, dampHour(h))
	}
	records = append(records, dryHour(10))
	flagged := flagAll(records)

	events := DetectEvents(Unflag(flagged), 0.2, 4)
	require.Len(t, events, 1)

	windows := BuildEventWindows(flagged, events, 0, 12)
	drying := ComputeEventDryingTimes(windows)
	require.Len(t, drying, 1)

	elapsed := events[0].EndTS.Sub(events[0].StartTS).Hours()
	assert.InDelta(t, 10.0, drying[0].DryingHoursFromStart, 1e-9)
	assert.InDelta(t, drying[0].DryingHoursFromStart-elapsed, drying[0].DryingHoursFromEnd, 1e-9)
	assert.InDelta(t, 8.0, drying[0].DryingHoursFromEnd, 1e-9)
}

func TestDryingFromEndCanGoNegative(t *testing.T) {
	// A bridged gap puts a city-dry hour inside the event span: drying is
	// found before the event's last qualifying hour and must not be clamped.
	records := []models.HourlyRecord{
		wetHour(0, 1.0),
		dampHour(1),
		dryHour(2),
		dampHour(3),
		wetHour(4, 1.0),
	}
	flagged := flagAll(records)
	events := DetectEvents(Unflag(flagged), 0.2, 4)
	require.Len(t, events, 1, "gap of 4 hours is bridged")

	windows := BuildEventWindows(flagged, events, 0, 12)
	drying := ComputeEventDryingTimes(windows)
	require.Len(t, drying, 1)
	assert.InDelta(t, 2.0, drying[0].DryingHoursFromStart, 1e-9)
	assert.InDelta(t, -2.0, drying[0].DryingHoursFromEnd, 1e-9)
}

func TestDryingUndeterminedProducesNoRow(t *testing.T) {
	records := []models.HourlyRecord{wetHour(0, 1.0)}
	for h := 1; h <= 12; h++ {
		records = append(records, dampHour(h))
	}
	flagged := flagAll(records)
	events := DetectEvents(Unflag(flagged), 0.2, 4)
	windows := BuildEventWindows(flagged, events, 6, 12)

	drying := ComputeEventDryingTimes(windows)
	require.NotNil(t, drying)
	assert.Empty(t, drying, "no determined drying time means no row, not a null row")
}

func TestDryingIgnoresPreStartHours(t *testing.T) {
	// A dry hour before the event start must not count.
	records := []models.HourlyRecord{dryHour(0), wetHour(3, 1.5)}
	for h := 4; h <= 8; h++ {
		records = append(records, dampHour(h))
	}
	records = append(records, dryHour(9))
	flagged := flagAll(records)
	events := DetectEvents(Unflag(flagged), 0.2, 4)
	require.Len(t, events, 1)

	windows := BuildEventWindows(flagged, events, 3, 12)
	drying := ComputeEventDryingTimes(windows)
	require.Len(t, drying, 1)
	assert.InDelta(t, 6.0, drying[0].DryingHoursFromStart, 1e-9)
}

func TestMedianExcludesUndeterminedAndTracksHorizon(t *testing.T) {
	// Event A dries 5 hours after start, event B only after 30. A short
	// horizon leaves B undetermined; extending it must pull B into the
	// median.
	records := []models.HourlyRecord{wetHour(0, 1.5)}
	for h := 1; h < 5; h++ {
		records = append(records, dampHour(h))
	}
	records = append(records, dryHour(5))
	records = append(records, wetHour(100, 1.5))
	for h := 101; h < 130; h++ {
		records = append(records, dampHour(h))
	}
	records = append(records, dryHour(130))
	flagged := flagAll(records)

	events := DetectEvents(Unflag(flagged), 0.2, 4)
	require.Len(t, events, 2)

	short := BuildEventWindows(flagged, events, 0, 12)
	_, shortStats := AggregateFractions(short)
	require.NotNil(t, shortStats.MedianDryingHFromStart)
	assert.InDelta(t, 5.0, *shortStats.MedianDryingHFromStart, 1e-9)

	long := BuildEventWindows(flagged, events, 0, 36)
	_, longStats := AggregateFractions(long)
	require.NotNil(t, longStats.MedianDryingHFromStart)
	assert.InDelta(t, 17.5, *longStats.MedianDryingHFromStart, 1e-9,
		"median over {5, 30} once the horizon reaches the slow event")
}

func TestMergeDrying(t *testing.T) {
	events := []models.Event{
		{EventID: 1, MMTotal: 4.0},
		{EventID: 2, MMTotal: 1.0},
	}
	drying := []models.DryingTime{
		{EventID: 1, DryingHoursFromStart: 9.0, DryingHoursFromEnd: 5.0, DryingHours: 5.0},
	}

	merged := MergeDrying(events, drying)

	require.Len(t, merged, 2)
	require.NotNil(t, merged[0].DryingHoursFromEnd)
	assert.Equal(t, 9.0, *merged[0].DryingHoursFromStart)
	assert.Equal(t, 5.0, *merged[0].DryingHoursFromEnd)
	assert.Equal(t, 5.0, *merged[0].DryingHours)
	assert.Nil(t, merged[1].DryingHours, "event without an estimate stays null")
	assert.Nil(t, merged[1].DryingHoursFromStart)
	assert.Nil(t, merged[1].DryingHoursFromEnd)
}

func TestMergeDryingEmptyEvents(t *testing.T) {
	merged := MergeDrying(nil, nil)

	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
