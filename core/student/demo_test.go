package student

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 9, 16, 9, 0, 0, 0, time.UTC)

func TestDemoCohort(t *testing.T) {
	cohort := DemoCohort(fixedTime)
	require.Len(t, cohort, len(demoStudents))

	again := DemoCohort(fixedTime.Add(time.Hour))
	ids := make(map[string]struct{})
	for i, s := range cohort {
		assert.Equal(t, again[i].ID, s.ID, "ids are stable")
		assert.Equal(t, fixedTime.Add(time.Duration(i)*time.Second), s.CreatedAt)
		_, err := uuid.Parse(s.ID)
		assert.NoError(t, err)
		assert.Len(t, s.Modules, len(demoStudents[i].modules))

		for j, mod := range s.Modules {
			if j > 0 {
				prev := s.Modules[j-1]
				assert.True(t, prev.Level < mod.Level || (prev.Level == mod.Level && prev.Code < mod.Code))
			}
			var weights float64
			for _, a := range mod.Assessments {
				weights += a.Weight
				_, dup := ids[a.ID]
				assert.False(t, dup, "assessment id %s reused", a.ID)
				ids[a.ID] = struct{}{}
			}
			assert.InDelta(t, 1, weights, 1e-9, mod.Code)
		}
	}

	alex := cohort[0]
	assert.Equal(t, "Alex Chen", alex.Name)
	assert.Equal(t, "CMM525", alex.Modules[0].Code)
	require.NotNil(t, alex.Modules[0].Assessments[0].Grade)
	assert.Equal(t, 72.0, alex.Modules[0].Assessments[0].Grade.Score)
	assert.Nil(t, alex.Modules[1].Assessments[1].Grade, "CMM526 exam is ungraded")
}
