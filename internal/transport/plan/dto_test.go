package plan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
)

func TestRequest_ToDomain(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		check   func(t *testing.T, p domain.Plan)
		wantErr string
	}{
		{
			name: "single with weekly activity",
			body: `{"mode":"single","responsible":" ana ","start_date":"2025-03-03","window_weeks":3,
				"activity":{"id":"walk","title":"Walk","estimated_hours":1,"recurrence":"weekly","weekly_days":["Thu","mon"]}}`,
			check: func(t *testing.T, p domain.Plan) {
				single, ok := p.(domain.SingleActivityPlan)
				require.True(t, ok)
				assert.Equal(t, "ana", single.Responsible)
				require.NotNil(t, p.Weekly())
				assert.Equal(t, []time.Weekday{time.Monday, time.Thursday}, p.Weekly().Days)
				assert.Equal(t, 3, p.Weekly().Weeks)
			},
		},
		{
			name: "batch defaults template ids",
			body: `{"mode":"BATCH","responsible":"ana","start_date":"2025-03-03",
				"templates":[{"title":"A","estimated_hours":2},{"title":"B","estimated_hours":3}],
				"recurrence":{"days":["wed"],"weeks":1}}`,
			check: func(t *testing.T, p domain.Plan) {
				assert.Equal(t, domain.PlanBatch, p.Mode())
				acts := p.Activities()
				require.Len(t, acts, 2)
				assert.Equal(t, "t1", acts[0].ID)
				assert.Equal(t, "t2", acts[1].ID)
				assert.Equal(t, []time.Weekday{time.Wednesday}, p.Weekly().Days)
			},
		},
		{
			name: "generated ids skip explicit ones",
			body: `{"mode":"batch","responsible":"ana","start_date":"2025-03-03",
				"templates":[{"title":"A","estimated_hours":2},{"id":"t1","title":"B","estimated_hours":3},{"title":"C","estimated_hours":1}]}`,
			check: func(t *testing.T, p domain.Plan) {
				acts := p.Activities()
				require.Len(t, acts, 3)
				assert.Equal(t, "t2", acts[0].ID)
				assert.Equal(t, "t1", acts[1].ID)
				assert.Equal(t, "t3", acts[2].ID)
				assert.NoError(t, p.Validate())
			},
		},
		{
			name:    "single without activity",
			body:    `{"mode":"single","responsible":"ana"}`,
			wantErr: "needs an activity",
		},
		{
			name:    "bad weekday",
			body:    `{"mode":"batch","templates":[],"recurrence":{"days":["funday"]}}`,
			wantErr: "unknown weekday",
		},
		{
			name:    "bad recurrence",
			body:    `{"mode":"single","activity":{"title":"x","estimated_hours":1,"recurrence":"daily"}}`,
			wantErr: "unknown recurrence",
		},
		{
			name:    "unknown mode",
			body:    `{"mode":"monthly"}`,
			wantErr: "unknown plan mode",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			p, err := req.ToDomain()
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, p)
		})
	}
}

func TestNewPreviewResponse(t *testing.T) {
	day := domain.MustParseDate("2025-03-03")
	preview := &contract.PlanPreview{
		Mode:        domain.PlanSingle,
		Responsible: "ana",
		StartDate:   day,
		Parts: []domain.ScheduledPart{{
			SourceActivityID: "pour", OriginRecurrenceDate: day, Date: day,
			Hours: 10.0 / 3, Title: "Pour", IsPartial: true, PartIndex: 1, PartCount: 2,
		}},
		Days:       []contract.DayLoad{{Date: day, ExistingHours: 4.67, NewHours: 3.33}},
		TotalHours: 3.33,
	}

	resp := NewPreviewResponse(preview)
	require.Len(t, resp.Parts, 1)
	assert.Equal(t, "Pour (Part 1/2)", resp.Parts[0].Title)
	assert.InDelta(t, 3.33, resp.Parts[0].Hours, 1e-9)
	require.Len(t, resp.Days, 1)
	assert.InDelta(t, 8.0, resp.Days[0].TotalHours, 1e-9)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":"2025-03-03"`)
}
