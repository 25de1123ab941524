package upstream

import (
	"context"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// PediatricRecord holds the child-track fields of a patient document.
type PediatricRecord struct {
	NameOfChildren string `json:"nameOfChildren"`
	NameOfMother   string `json:"nameOfMother"`
	NameOfFather   string `json:"nameOfFather,omitempty"`
	Address        string `json:"address"`
	ContactNumber  string `json:"contactNumber"`
	Birthday       string `json:"birthday"`
	Sex            string `json:"sex,omitempty"`
	BirthWeight    string `json:"birthWeight,omitempty"`
	BirthLength    string `json:"birthLength,omitempty"`
}

// ObGyneRecord holds the OB-GYNE-track fields of a patient document.
type ObGyneRecord struct {
	PatientName   string `json:"patientName"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber"`
	Birthday      string `json:"birthday"`
	Age           int    `json:"age,omitempty"`
	CivilStatus   string `json:"civilStatus,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	Gravida       int    `json:"gravida,omitempty"`
	Para          int    `json:"para,omitempty"`
	LastMenstrual string `json:"lastMenstrualPeriod,omitempty"`
}

// Patient is the upstream patient document. Exactly one of the two record
// objects is populated, selected by PatientType.
type Patient struct {
	ID          string           `json:"_id"`
	PatientType string           `json:"patientType"`
	Status      string           `json:"status"`
	Pediatric   *PediatricRecord `json:"pediatricRecord,omitempty"`
	ObGyne      *ObGyneRecord    `json:"obGyneRecord,omitempty"`
	CreatedAt   string           `json:"createdAt,omitempty"`
}

// Consultation is a visit note appended to a patient chart.
type Consultation struct {
	Date      string `json:"date"`
	Complaint string `json:"complaint,omitempty"`
	Diagnosis string `json:"diagnosis,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Immunization is a vaccine administration record on a pediatric chart.
type Immunization struct {
	Vaccine      string `json:"vaccine"`
	Date         string `json:"date"`
	Dose         string `json:"dose,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
	AdministerBy string `json:"administeredBy,omitempty"`
}

func (c *Client) ListPatients(ctx context.Context, token string) ([]Patient, error) {
	var out struct {
		Patients []Patient `json:"patients"`
	}
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/patients")
	}, "list patients")
	if err != nil {
		return nil, err
	}
	return out.Patients, nil
}

func (c *Client) SearchPatients(ctx context.Context, token, query string) ([]Patient, error) {
	var out struct {
		Patients []Patient `json:"patients"`
	}
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/patients/search?q=" + url.QueryEscape(query))
	}, "search patients")
	if err != nil {
		return nil, err
	}
	return out.Patients, nil
}

func (c *Client) GetPatient(ctx context.Context, token, id string) (*Patient, error) {
	var out Patient
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/patients/" + id)
	}, "get patient")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePatient(ctx context.Context, token string, p Patient) (*Patient, error) {
	var out Patient
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(p).SetResult(&out).Post("/patients")
	}, "create patient")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, token string, p Patient) (*Patient, error) {
	var out Patient
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(p).SetResult(&out).Put("/patients/" + p.ID)
	}, "update patient")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePatient(ctx context.Context, token, id string) error {
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).Delete("/patients/" + id)
	}, "delete patient")
}

func (c *Client) AddConsultation(ctx context.Context, token, patientID string, cons Consultation) error {
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(cons).Post("/patients/" + patientID + "/consultations")
	}, "add consultation")
}

func (c *Client) AddImmunization(ctx context.Context, token, patientID string, imm Immunization) error {
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(imm).Post("/patients/" + patientID + "/immunizations")
	}, "add immunization")
}
