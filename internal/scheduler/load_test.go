package scheduler

import (
	"testing"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewLoad_SumsPerDay(t *testing.T) {
	load := NewLoad([]domain.ExistingActivity{
		{Date: monday, EstimatedHours: 2},
		{Date: monday, EstimatedHours: 1.5},
		{Date: tuesday, EstimatedHours: 4},
		{Date: domain.Date{}, EstimatedHours: 6},
		{Date: wednesday, EstimatedHours: -1},
	})

	assert.Equal(t, 3.5, load.Hours(monday))
	assert.Equal(t, 4.0, load.Hours(tuesday))
	assert.Equal(t, 0.0, load.Hours(wednesday))
}

func TestLoad_NilIsEmpty(t *testing.T) {
	var load *Load
	assert.Equal(t, 0.0, load.Hours(monday))

	c := load.Clone()
	c.Add(monday, 2)
	assert.Equal(t, 2.0, c.Hours(monday))
}

func TestLoad_CloneIsIndependent(t *testing.T) {
	load := NewLoad([]domain.ExistingActivity{{Date: monday, EstimatedHours: 2}})
	c := load.Clone()
	c.Add(monday, 3)

	assert.Equal(t, 2.0, load.Hours(monday))
	assert.Equal(t, 5.0, c.Hours(monday))
}
