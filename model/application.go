package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Application represents one submitted job application as delivered by the
// backend API. Every nested group may be absent in source data; call
// Normalize after decoding so rendering never has to guard against a
// missing parent object.
type Application struct {
	// ID is the storage-assigned record id, used for UI selection keys.
	// It is distinct from ApplicationID, the stable external identifier.
	ID                string            `json:"_id"`
	ApplicationID     string            `json:"applicationId"`
	PersonalInfo      *PersonalInfo     `json:"personalInfo"`
	PositionDetails   *PositionDetails  `json:"positionDetails"`
	Education         *Education        `json:"education"`
	EmploymentHistory []EmploymentEntry `json:"employmentHistory"`
	Documents         *Documents        `json:"documents"`
	Consents          *Consents         `json:"consents"`
	Signature         *Signature        `json:"signature"`
	SubmittedAt       Timestamp         `json:"submittedAt"`
}

type PersonalInfo struct {
	FirstName      string    `json:"firstName"`
	MiddleName     string    `json:"middleName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DOB            Timestamp `json:"dob"`
	WorkAuthorized bool      `json:"workAuthorized"`
	SSN            string    `json:"ssn"`
	IDType         string    `json:"idType"`
	IDNumber       string    `json:"idNumber"`
	IDExpiration   Timestamp `json:"idExpiration"`
	// IDFront and IDBack are stored-file references: relative paths on the
	// backend, resolved to download URLs by the backend client.
	IDFront string `json:"idFront"`
	IDBack  string `json:"idBack"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type PositionDetails struct {
	PositionApplied    string    `json:"positionApplied"`
	EmploymentType     string    `json:"employmentType"`
	ExpectedSalary     string    `json:"expectedSalary"`
	StartDate          Timestamp `json:"startDate"`
	WorkSchedule       string    `json:"workSchedule"`
	WillOvertimeTravel bool      `json:"willOvertimeTravel"`
	BankName           string    `json:"bankName"`
	BankAccountType    string    `json:"bankAccountType"`
	AccountHolderName  string    `json:"accountHolderName"`
	RoutingNumber      string    `json:"routingNumber"`
	AccountNumber      string    `json:"accountNumber"`
	BankConsent        bool      `json:"bankConsent"`
}

type Education struct {
	HighSchoolName     string `json:"highSchoolName"`
	HighSchoolLocation string `json:"highSchoolLocation"`
	CollegeName        string `json:"collegeName"`
	CollegeLocation    string `json:"collegeLocation"`
	CollegeDegree      string `json:"collegeDegree"`
	Licenses           string `json:"licenses"`
}

type EmploymentEntry struct {
	Company          string    `json:"company"`
	JobTitle         string    `json:"jobTitle"`
	SupervisorName   string    `json:"supervisorName"`
	DateFrom         Timestamp `json:"dateFrom"`
	DateTo           Timestamp `json:"dateTo"`
	Responsibilities string    `json:"responsibilities"`
}

type Documents struct {
	Resume string `json:"resume"`
}

type Consents struct {
	IdentityVerification    bool `json:"identityVerification"`
	BankDetailsVerification bool `json:"bankDetailsVerification"`
}

type Signature struct {
	ApplicantName string    `json:"applicantName"`
	SignedDate    Timestamp `json:"signedDate"`
}

// Normalize fills absent nested groups with zero values so field access is
// always safe, and falls back to the external id as the selection key when
// the storage id is missing.
func (a *Application) Normalize() {
	if a.PersonalInfo == nil {
		a.PersonalInfo = &PersonalInfo{}
	}
	if a.PositionDetails == nil {
		a.PositionDetails = &PositionDetails{}
	}
	if a.Education == nil {
		a.Education = &Education{}
	}
	if a.Documents == nil {
		a.Documents = &Documents{}
	}
	if a.Consents == nil {
		a.Consents = &Consents{}
	}
	if a.Signature == nil {
		a.Signature = &Signature{}
	}
	if a.ID == "" {
		a.ID = a.ApplicationID
	}
}

// Timestamp decodes the loosely formatted date strings the backend emits.
// Unrecognized or empty values decode to the zero time, which renders as
// "N/A" rather than failing the whole list fetch.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// Non-string value; treat as absent.
		t.Time = time.Time{}
		return nil
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
