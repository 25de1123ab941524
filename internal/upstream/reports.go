package upstream

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// DashboardSummary is the upstream's aggregate counts for the dashboard
// landing page.
type DashboardSummary struct {
	TodayTotal     int `json:"todayTotal"`
	ActiveCount    int `json:"activeCount"`
	CompletedToday int `json:"completedToday"`
	CancelledToday int `json:"cancelledToday"`
	PatientCount   int `json:"patientCount"`
}

func (c *Client) GetDashboardSummary(ctx context.Context, token string) (*DashboardSummary, error) {
	var out DashboardSummary
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/reports/dashboard")
	}, "dashboard summary")
	if err != nil {
		return nil, err
	}
	return &out, nil
}
