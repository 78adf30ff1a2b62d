// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// UnknownPatient is the name reported when neither the caller nor the
// transcript supplies one.
const UnknownPatient = "Unknown"

// MedicalFields holds the fields found by the rule-based extractor.
// Empty strings and nil slices mean the rule did not fire.
type MedicalFields struct {
	PatientName   string   `json:"Patient_Name,omitempty" yaml:"patient_name,omitempty"`
	Symptoms      []string `json:"Symptoms" yaml:"symptoms"`
	Diagnosis     string   `json:"Diagnosis,omitempty" yaml:"diagnosis,omitempty"`
	Treatment     []string `json:"Treatment" yaml:"treatment"`
	CurrentStatus string   `json:"Current_Status,omitempty" yaml:"current_status,omitempty"`
	Prognosis     string   `json:"Prognosis,omitempty" yaml:"prognosis,omitempty"`
}

// StructuredReport is the structured medical summary of one transcript.
// In JSON, empty Diagnosis, Current_Status and Prognosis are written as
// null rather than dropped.
type StructuredReport struct {
	PatientName   string   `json:"Patient_Name" yaml:"patient_name"`
	Symptoms      []string `json:"Symptoms" yaml:"symptoms"`
	Diagnosis     string   `json:"Diagnosis" yaml:"diagnosis,omitempty"`
	Treatment     []string `json:"Treatment" yaml:"treatment"`
	CurrentStatus string   `json:"Current_Status" yaml:"current_status,omitempty"`
	Prognosis     string   `json:"Prognosis" yaml:"prognosis,omitempty"`
	Keywords      []string `json:"Keywords" yaml:"keywords"`
}

// MarshalJSON implements json.Marshaler.
func (r StructuredReport) MarshalJSON() ([]byte, error) {
	type plain StructuredReport
	return json.Marshal(struct {
		plain
		Diagnosis     *string `json:"Diagnosis"`
		CurrentStatus *string `json:"Current_Status"`
		Prognosis     *string `json:"Prognosis"`
	}{
		plain:         plain(r),
		Diagnosis:     nullable(r.Diagnosis),
		CurrentStatus: nullable(r.CurrentStatus),
		Prognosis:     nullable(r.Prognosis),
	})
}

// Sentiment is the patient-facing sentiment class.
type Sentiment string

const (
	SentimentAnxious   Sentiment = "Anxious"
	SentimentNeutral   Sentiment = "Neutral"
	SentimentReassured Sentiment = "Reassured"
)

// Intent is the rule-detected intent of a patient utterance.
type Intent string

const (
	IntentSeekingReassurance Intent = "Seeking reassurance"
	IntentReportingSymptoms  Intent = "Reporting symptoms"
	IntentReassured          Intent = "Reassured"
	IntentOther              Intent = "Other"
)

// SentimentResult pairs the sentiment class with the detected intent.
type SentimentResult struct {
	Sentiment Sentiment `json:"Sentiment" yaml:"sentiment"`
	Intent    Intent    `json:"Intent" yaml:"intent"`
}

// Subjective is the patient-reported part of a SOAP note. An empty
// ChiefComplaint is written as JSON null.
type Subjective struct {
	ChiefComplaint          string `json:"Chief_Complaint" yaml:"chief_complaint,omitempty"`
	HistoryOfPresentIllness string `json:"History_of_Present_Illness" yaml:"history_of_present_illness"`
}

// MarshalJSON implements json.Marshaler.
func (s Subjective) MarshalJSON() ([]byte, error) {
	type plain Subjective
	return json.Marshal(struct {
		plain
		ChiefComplaint *string `json:"Chief_Complaint"`
	}{
		plain:          plain(s),
		ChiefComplaint: nullable(s.ChiefComplaint),
	})
}

// Objective holds examination findings.
type Objective struct {
	PhysicalExam string `json:"Physical_Exam" yaml:"physical_exam"`
	Observations string `json:"Observations" yaml:"observations"`
}

// Assessment holds the clinician's conclusion.
type Assessment struct {
	Diagnosis string `json:"Diagnosis" yaml:"diagnosis"`
	Severity  string `json:"Severity" yaml:"severity"`
}

// Plan holds treatment and follow-up.
type Plan struct {
	Treatment []string `json:"Treatment" yaml:"treatment"`
	FollowUp  string   `json:"Follow-Up" yaml:"follow_up"`
}

// SOAPNote is a Subjective/Objective/Assessment/Plan clinical note.
type SOAPNote struct {
	Subjective Subjective `json:"Subjective" yaml:"subjective"`
	Objective  Objective  `json:"Objective" yaml:"objective"`
	Assessment Assessment `json:"Assessment" yaml:"assessment"`
	Plan       Plan       `json:"Plan" yaml:"plan"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
