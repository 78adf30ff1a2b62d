// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Record is one processed consultation: the transcript and every output
// derived from it. Records are what the archive stores.
type Record struct {
	// ID is derived from the transcript text, so re-processing the same
	// transcript updates the existing record.
	ID         string           `json:"id" yaml:"id"`
	Patient    string           `json:"patient" yaml:"patient"`
	Exam       string           `json:"exam,omitempty" yaml:"exam,omitempty"`
	CreatedAt  time.Time        `json:"created_at" yaml:"created_at"`
	Transcript string           `json:"transcript" yaml:"transcript"`
	Report     StructuredReport `json:"report" yaml:"report"`
	SOAP       SOAPNote         `json:"soap" yaml:"soap"`
	Sentiment  SentimentResult  `json:"sentiment" yaml:"sentiment"`
}
