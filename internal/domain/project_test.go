package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShortID(t *testing.T) {
	for _, id := range []string{"RES01", "TORRE02", "ABC1234", "ABCDEF01", "XYZ99"} {
		p := &Project{ShortID: id}
		assert.NoError(t, p.ValidateShortID(), "should accept %q", id)
	}
	for _, id := range []string{"", "res01", "AB1", "RESIDENCIAL", "12345", "RE!01", "ABCDEFG01"} {
		p := &Project{ShortID: id}
		assert.Error(t, p.ValidateShortID(), "should reject %q", id)
	}
}

func TestNormalizeShortID(t *testing.T) {
	assert.Equal(t, "RES01", NormalizeShortID("  res01 "))
}

func TestProjectValidate_CollectsEveryProblem(t *testing.T) {
	target := MustParseDate("2025-01-01")
	p := &Project{ShortID: "x", StartDate: MustParseDate("2025-06-01"), TargetDate: &target}

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short ID")
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "before start date")
}

func TestProjectValidate_OK(t *testing.T) {
	target := MustParseDate("2025-12-01")
	p := &Project{ShortID: "RES01", Name: "Casa Verde", StartDate: MustParseDate("2025-06-01"), TargetDate: &target}
	assert.NoError(t, p.Validate())
}

func TestProjectIsArchived(t *testing.T) {
	assert.True(t, (&Project{Status: ProjectArchived}).IsArchived())
	assert.False(t, (&Project{Status: ProjectActive}).IsArchived())
}

func TestDisplayID(t *testing.T) {
	tests := []struct {
		name string
		p    Project
		want string
	}{
		{"short code wins", Project{ID: "550e8400-e29b-41d4-a716-446655440000", ShortID: "RES01"}, "RES01"},
		{"falls back to id prefix", Project{ID: "550e8400-e29b-41d4-a716-446655440000"}, "550e8400"},
		{"short id kept whole", Project{ID: "abc"}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.DisplayID())
		})
	}
}
