package upstream

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// DayHours is one row of a doctor's weekly hours grid.
type DayHours struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Closed bool   `json:"closed"`
}

// DoctorSettings is a doctor entry in the clinic settings document.
// Doctors carry a stable ID and clinical track; display names are editable
// without changing identity.
type DoctorSettings struct {
	ID          string              `json:"_id"`
	Name        string              `json:"name"`
	Track       string              `json:"track"`
	WeeklyHours map[string]DayHours `json:"weeklyHours"`
}

// ClinicSettings is the clinic settings document.
type ClinicSettings struct {
	ClinicName string           `json:"clinicName"`
	Doctors    []DoctorSettings `json:"doctors"`
}

func (c *Client) GetSettings(ctx context.Context, token string) (*ClinicSettings, error) {
	var out ClinicSettings
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/settings")
	}, "get settings")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveSettings(ctx context.Context, token string, s ClinicSettings) (*ClinicSettings, error) {
	var out ClinicSettings
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(s).SetResult(&out).Put("/settings")
	}, "save settings")
	if err != nil {
		return nil, err
	}
	return &out, nil
}
