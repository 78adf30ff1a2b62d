// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the field extractor, keyword extractor and
// sentiment analyzer into the three consultation outputs: a structured
// summary, a sentiment/intent label and a SOAP note.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/medscribe/internal/extract"
	"github.com/pdiddy/medscribe/internal/keywords"
	"github.com/pdiddy/medscribe/internal/nlp"
	"github.com/pdiddy/medscribe/internal/sentiment"
	"github.com/pdiddy/medscribe/internal/transcript"
	"github.com/pdiddy/medscribe/pkg/types"
)

// SummaryKeywords is the number of keywords attached to a summary when the
// configuration does not say otherwise.
const SummaryKeywords = 8

// SOAP defaults used when the transcript does not supply a value.
const (
	accidentHistory     = "Patient involved in a car accident on September 1st (reported)."
	defaultPhysicalExam = "Full range of motion in cervical and lumbar spine, no tenderness reported in visit."
	defaultObservations = "Patient appears in normal health, normal gait."
	defaultDiagnosis    = "Likely musculoskeletal strain/whiplash"
	defaultSeverity     = "Mild, improving"
	defaultFollowUp     = "Return if symptoms worsen or persist beyond expected recovery period (6 months)."
)

var defaultPlan = []string{"Analgesics PRN", "Physiotherapy as needed"}

// Pipeline holds the shared analysis components. It is safe for concurrent
// use; each call parses its own document.
type Pipeline struct {
	nlp       *nlp.Analyzer
	keywords  keywords.Extractor
	sentiment *sentiment.Analyzer
	topK      int
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithTagger replaces the default prose tagger.
func WithTagger(t nlp.Tagger) Option {
	return func(p *Pipeline) {
		p.nlp = nlp.NewAnalyzerWithTagger(t, p.logger)
	}
}

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New builds a Pipeline from cfg. classifier may be nil, in which case
// every sentiment is Neutral.
func New(cfg types.PipelineConfig, classifier sentiment.Classifier, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	kw, err := keywords.New(cfg.Keywords, logger)
	if err != nil {
		return nil, fmt.Errorf("keyword extractor: %w", err)
	}
	topK := cfg.Keywords.TopK
	if topK <= 0 {
		topK = SummaryKeywords
	}
	p := &Pipeline{
		nlp:       nlp.NewAnalyzer(logger),
		keywords:  kw,
		sentiment: sentiment.NewAnalyzer(classifier, cfg.Sentiment.MaxChars, logger),
		topK:      topK,
		logger:    logger,
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Summarize produces the structured report for text. A non-empty
// patientName replaces the extracted name. Speaker labels are removed
// before tagging so they are neither names nor keywords.
func (p *Pipeline) Summarize(_ context.Context, text, patientName string) types.StructuredReport {
	doc := p.nlp.Parse(transcript.StripSpeakers(text))
	fields := extract.RuleExtractFields(doc)

	kws, err := p.keywords.Extract(doc, p.topK)
	if err != nil {
		if !errors.Is(err, keywords.ErrNoKeywords) {
			p.logger.Warn("keyword extraction failed", zap.Error(err))
		}
		kws = nil
	}

	if patientName != "" {
		fields.PatientName = patientName
	}
	if fields.PatientName == "" {
		fields.PatientName = types.UnknownPatient
	}

	return types.StructuredReport{
		PatientName:   fields.PatientName,
		Symptoms:      nonNil(fields.Symptoms),
		Diagnosis:     fields.Diagnosis,
		Treatment:     nonNil(fields.Treatment),
		CurrentStatus: fields.CurrentStatus,
		Prognosis:     fields.Prognosis,
		Keywords:      nonNil(kws),
	}
}

// SentimentAndIntent labels a patient utterance.
func (p *Pipeline) SentimentAndIntent(ctx context.Context, patientText string) types.SentimentResult {
	return p.sentiment.Analyze(ctx, patientText)
}

// GenerateSOAP maps the transcript's extracted fields into a SOAP note.
// examText, when non-empty, is used as the physical exam finding.
func (p *Pipeline) GenerateSOAP(ctx context.Context, text, examText string) types.SOAPNote {
	return soapFromReport(p.Summarize(ctx, text, ""), examText)
}

// Process runs all three outputs over a parsed transcript. patient and
// exam override the transcript's frontmatter when non-empty. Sentiment is
// computed over the patient's turns only.
func (p *Pipeline) Process(ctx context.Context, t *transcript.Transcript, patient, exam string) types.Record {
	if patient == "" {
		patient = t.Meta.Patient
	}
	if exam == "" {
		exam = t.Meta.Exam
	}

	report := p.Summarize(ctx, t.Body, patient)
	rec := types.Record{
		Patient:    report.PatientName,
		Exam:       exam,
		CreatedAt:  p.now().UTC(),
		Transcript: t.Body,
		Report:     report,
		SOAP:       soapFromReport(report, exam),
		Sentiment:  p.SentimentAndIntent(ctx, t.PatientText()),
	}
	p.logger.Info("processed transcript",
		zap.String("patient", rec.Patient),
		zap.Int("turns", len(t.Turns)),
		zap.Int("symptoms", len(report.Symptoms)),
		zap.String("sentiment", string(rec.Sentiment.Sentiment)))
	return rec
}

func soapFromReport(r types.StructuredReport, examText string) types.SOAPNote {
	symptoms := strings.Join(r.Symptoms, ", ")

	exam := examText
	if exam == "" {
		exam = defaultPhysicalExam
	}
	diagnosis := r.Diagnosis
	if diagnosis == "" {
		diagnosis = defaultDiagnosis
	}
	treatment := r.Treatment
	if len(treatment) == 0 {
		treatment = append([]string(nil), defaultPlan...)
	}

	return types.SOAPNote{
		Subjective: types.Subjective{
			ChiefComplaint:          symptoms,
			HistoryOfPresentIllness: accidentHistory + " Symptoms reported: " + symptoms + ".",
		},
		Objective: types.Objective{
			PhysicalExam: exam,
			Observations: defaultObservations,
		},
		Assessment: types.Assessment{
			Diagnosis: diagnosis,
			Severity:  defaultSeverity,
		},
		Plan: types.Plan{
			Treatment: treatment,
			FollowUp:  defaultFollowUp,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
