package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/core"
)

func Test_Window_Unbounded_ContainsEverything(t *testing.T) {
	window := core.Window{}

	assert.True(t, window.Contains(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, window.Contains(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, window.IsBounded())
}

func Test_Window_BoundsAreInclusive(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	window := core.BuildWindow(&start, &end)

	assert.True(t, window.Contains(start))
	assert.True(t, window.Contains(end))
	assert.False(t, window.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, window.Contains(end.Add(time.Nanosecond)))
	assert.True(t, window.IsBounded())
}

func Test_Window_HalfOpenBounds(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	onlyStart := core.BuildWindow(&start, nil)
	assert.True(t, onlyStart.Contains(start.AddDate(10, 0, 0)))
	assert.False(t, onlyStart.Contains(start.Add(-time.Hour)))

	onlyEnd := core.BuildWindow(nil, &start)
	assert.True(t, onlyEnd.Contains(start.AddDate(-10, 0, 0)))
	assert.False(t, onlyEnd.Contains(start.Add(time.Hour)))
}
