// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds medical fields in transcript text with keyword and
// regular-expression rules. Each rule runs independently over the
// lower-cased text; no rule sees another rule's output.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/medscribe/internal/nlp"
	"github.com/pdiddy/medscribe/internal/transcript"
	"github.com/pdiddy/medscribe/pkg/types"
)

// symptomKeywords are matched as substrings of the lower-cased text.
var symptomKeywords = []string{
	"neck pain",
	"neck",
	"back pain",
	"back",
	"head",
	"stiffness",
	"pain",
	"backache",
	"dizziness",
}

// numberWords maps spelled-out counts to digits.
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
}

const countPattern = `(\d+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)`

var (
	// physioCount matches "10 physiotherapy" and "ten physiotherapy".
	physioCount = regexp.MustCompile(`\b` + countPattern + `\b\s+physiotherapy`)

	// physioSessions matches "ten sessions of physiotherapy".
	physioSessions = regexp.MustCompile(`\b` + countPattern + `\b\s+sessions?\s+of\s+physiotherapy`)

	recoveryWithin = regexp.MustCompile(`full recovery within ([^.\n]+)`)

	currentStatus = regexp.MustCompile(`\b(occasional|currently|now) ([^.\n]+)`)
)

// RuleExtractFields applies the field rules to doc. The patient name comes
// from the first PERSON entity found by the tagger that is not a speaker
// label.
func RuleExtractFields(doc *nlp.Doc) types.MedicalFields {
	lowered := doc.Lower()

	return types.MedicalFields{
		PatientName:   doc.FirstPerson(transcript.SpeakerLabels...),
		Symptoms:      Symptoms(lowered),
		Diagnosis:     Diagnosis(lowered),
		Treatment:     Treatment(lowered),
		CurrentStatus: CurrentStatus(lowered),
		Prognosis:     Prognosis(lowered),
	}
}

// Symptoms returns the sorted, title-cased symptom keywords present in
// lowered. The result is never nil.
func Symptoms(lowered string) []string {
	caser := cases.Title(language.English)
	seen := make(map[string]bool)
	symptoms := []string{}
	for _, kw := range symptomKeywords {
		if !strings.Contains(lowered, kw) {
			continue
		}
		title := caser.String(kw)
		if seen[title] {
			continue
		}
		seen[title] = true
		symptoms = append(symptoms, title)
	}
	sort.Strings(symptoms)
	return symptoms
}

// Diagnosis returns "Whiplash injury" when whiplash is mentioned.
func Diagnosis(lowered string) string {
	if strings.Contains(lowered, "whiplash") {
		return "Whiplash injury"
	}
	return ""
}

// Treatment returns the treatments mentioned in lowered, physiotherapy
// first. The result is never nil.
func Treatment(lowered string) []string {
	treatments := []string{}

	m := physioCount.FindStringSubmatch(lowered)
	if m == nil {
		m = physioSessions.FindStringSubmatch(lowered)
	}
	if m != nil {
		treatments = append(treatments, fmt.Sprintf("%s physiotherapy sessions", normalizeCount(m[1])))
	}

	if strings.Contains(lowered, "painkill") || strings.Contains(lowered, "analgesic") {
		treatments = append(treatments, "Painkillers")
	}
	return treatments
}

// Prognosis returns the expected recovery, or "".
func Prognosis(lowered string) string {
	if m := recoveryWithin.FindStringSubmatch(lowered); m != nil {
		return "Full recovery expected within " + strings.TrimSpace(m[1])
	}
	if strings.Contains(lowered, "full recovery") {
		return "Full recovery expected"
	}
	return ""
}

// CurrentStatus returns the first "occasional/currently/now ..." phrase up
// to the end of its sentence, or "".
func CurrentStatus(lowered string) string {
	if m := currentStatus.FindString(lowered); m != "" {
		return strings.TrimSpace(m)
	}
	if strings.Contains(lowered, "occasional back") || strings.Contains(lowered, "occasionally") {
		return "Occasional backache"
	}
	return ""
}

func normalizeCount(s string) string {
	if n, ok := numberWords[s]; ok {
		return strconv.Itoa(n)
	}
	return s
}
