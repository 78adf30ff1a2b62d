// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/medscribe/internal/nlp"
	"github.com/pdiddy/medscribe/internal/sentiment"
	"github.com/pdiddy/medscribe/internal/transcript"
	"github.com/pdiddy/medscribe/pkg/types"
)

// stubTagger reports fixed entities and no tokens.
type stubTagger struct {
	entities []nlp.Entity
}

func (s stubTagger) Tag(string) ([]nlp.Token, []nlp.Entity, error) {
	return nil, s.entities, nil
}

func newTestPipeline(t *testing.T, classifier sentiment.Classifier, entities ...nlp.Entity) *Pipeline {
	t.Helper()
	p, err := New(types.DefaultPipelineConfig(), classifier, nil,
		WithTagger(stubTagger{entities: entities}),
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	return p
}

func TestSummarize_SampleBrief(t *testing.T) {
	p := newTestPipeline(t, nil)
	got := p.Summarize(context.Background(), transcript.SampleBrief, transcript.SampleBriefPatient)

	assert.Equal(t, "Janet Jones", got.PatientName)
	assert.Equal(t, []string{"Back", "Backache", "Head", "Neck", "Pain"}, got.Symptoms)
	assert.Equal(t, "Whiplash injury", got.Diagnosis)
	assert.Equal(t, []string{"10 physiotherapy sessions", "Painkillers"}, got.Treatment)
	assert.Equal(t, "now it's occasional backache", got.CurrentStatus)
	assert.Equal(t, "Full recovery expected", got.Prognosis)
	assert.NotEmpty(t, got.Keywords)
	assert.LessOrEqual(t, len(got.Keywords), SummaryKeywords)
}

func TestSummarize_PatientName(t *testing.T) {
	tests := []struct {
		name     string
		entities []nlp.Entity
		override string
		want     string
	}{
		{"none", nil, "", types.UnknownPatient},
		{"extracted", []nlp.Entity{{Text: "Jones", Label: nlp.LabelPerson}}, "", "Jones"},
		{"override wins", []nlp.Entity{{Text: "Jones", Label: nlp.LabelPerson}}, "Janet Jones", "Janet Jones"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, nil, tt.entities...)
			got := p.Summarize(context.Background(), transcript.SampleBrief, tt.override)
			assert.Equal(t, tt.want, got.PatientName)
		})
	}
}

func TestSummarize_ProseTaggerIgnoresSpeakerLabels(t *testing.T) {
	p, err := New(types.DefaultPipelineConfig(), nil, nil)
	require.NoError(t, err)

	got := p.Summarize(context.Background(), transcript.SampleConsultation, "")

	for _, word := range strings.Fields(strings.ToLower(got.PatientName)) {
		assert.NotContains(t, transcript.SpeakerLabels, strings.Trim(word, ".,:"))
	}
	assert.NotContains(t, got.Keywords, "physician")
	assert.NotContains(t, got.Keywords, "patient")
	assert.Equal(t, "Whiplash injury", got.Diagnosis)
}

func TestSummarize_EmptyText(t *testing.T) {
	p := newTestPipeline(t, nil)
	got := p.Summarize(context.Background(), "", "")

	assert.Equal(t, types.UnknownPatient, got.PatientName)
	assert.Equal(t, []string{}, got.Symptoms)
	assert.Equal(t, []string{}, got.Treatment)
	assert.Equal(t, []string{}, got.Keywords)
	assert.Empty(t, got.Diagnosis)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Patient_Name": "Unknown",
		"Symptoms": [],
		"Diagnosis": null,
		"Treatment": [],
		"Current_Status": null,
		"Prognosis": null,
		"Keywords": []
	}`, string(b))
}

func TestSentimentAndIntent(t *testing.T) {
	p := newTestPipeline(t, sentiment.NewLexicon())
	got := p.SentimentAndIntent(context.Background(), transcript.SampleUtterance)
	assert.Equal(t, types.SentimentResult{
		Sentiment: types.SentimentReassured,
		Intent:    types.IntentSeekingReassurance,
	}, got)
}

func TestSentimentAndIntent_NoClassifier(t *testing.T) {
	p := newTestPipeline(t, nil)
	got := p.SentimentAndIntent(context.Background(), "Thank you, doctor.")
	assert.Equal(t, types.SentimentNeutral, got.Sentiment)
	assert.Equal(t, types.IntentReassured, got.Intent)
}

func TestGenerateSOAP_SampleBrief(t *testing.T) {
	p := newTestPipeline(t, nil)
	got := p.GenerateSOAP(context.Background(), transcript.SampleBrief, transcript.SampleExam)

	want := types.SOAPNote{
		Subjective: types.Subjective{
			ChiefComplaint:          "Back, Backache, Head, Neck, Pain",
			HistoryOfPresentIllness: "Patient involved in a car accident on September 1st (reported). Symptoms reported: Back, Backache, Head, Neck, Pain.",
		},
		Objective: types.Objective{
			PhysicalExam: transcript.SampleExam,
			Observations: "Patient appears in normal health, normal gait.",
		},
		Assessment: types.Assessment{
			Diagnosis: "Whiplash injury",
			Severity:  "Mild, improving",
		},
		Plan: types.Plan{
			Treatment: []string{"10 physiotherapy sessions", "Painkillers"},
			FollowUp:  "Return if symptoms worsen or persist beyond expected recovery period (6 months).",
		},
	}
	assert.Equal(t, want, got)
}

func TestGenerateSOAP_Defaults(t *testing.T) {
	p := newTestPipeline(t, nil)
	got := p.GenerateSOAP(context.Background(), "The weather was nice.", "")

	assert.Empty(t, got.Subjective.ChiefComplaint)
	assert.Equal(t, "Patient involved in a car accident on September 1st (reported). Symptoms reported: .", got.Subjective.HistoryOfPresentIllness)
	assert.Equal(t, "Full range of motion in cervical and lumbar spine, no tenderness reported in visit.", got.Objective.PhysicalExam)
	assert.Equal(t, "Likely musculoskeletal strain/whiplash", got.Assessment.Diagnosis)
	assert.Equal(t, []string{"Analgesics PRN", "Physiotherapy as needed"}, got.Plan.Treatment)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Contains(t, raw["Subjective"], "Chief_Complaint")
	assert.Nil(t, raw["Subjective"]["Chief_Complaint"])
	assert.Contains(t, raw["Plan"], "Follow-Up")
	assert.Contains(t, raw["Subjective"], "History_of_Present_Illness")
}

func TestProcess_UsesFrontmatter(t *testing.T) {
	tr, err := transcript.Parse("---\npatient: Janet Jones\nexam: Tender at C5.\n---\n" + transcript.SampleBrief)
	require.NoError(t, err)

	p := newTestPipeline(t, sentiment.NewLexicon())
	rec := p.Process(context.Background(), tr, "", "")

	assert.Equal(t, "Janet Jones", rec.Patient)
	assert.Equal(t, "Janet Jones", rec.Report.PatientName)
	assert.Equal(t, "Tender at C5.", rec.SOAP.Objective.PhysicalExam)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), rec.CreatedAt)
	assert.Equal(t, types.IntentReportingSymptoms, rec.Sentiment.Intent)
	assert.Equal(t, types.SentimentAnxious, rec.Sentiment.Sentiment)
	assert.Empty(t, rec.ID)
}

func TestProcess_FlagsOverrideFrontmatter(t *testing.T) {
	tr, err := transcript.Parse("---\npatient: Someone Else\n---\n" + transcript.SampleBrief)
	require.NoError(t, err)

	p := newTestPipeline(t, nil)
	rec := p.Process(context.Background(), tr, "Janet Jones", transcript.SampleExam)

	assert.Equal(t, "Janet Jones", rec.Patient)
	assert.Equal(t, transcript.SampleExam, rec.SOAP.Objective.PhysicalExam)
}

func TestNew_BadKeywordStrategy(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.Keywords.Strategy = "tfidf"
	_, err := New(cfg, nil, nil)
	assert.Error(t, err)
}
