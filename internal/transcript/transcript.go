// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript loads consultation transcripts and splits them into
// speaker turns.
//
// A transcript file is plain text, optionally preceded by YAML
// frontmatter:
//
//	---
//	patient: Janet Jones
//	exam: "Neck and back: full ROM, no tenderness."
//	---
//	Physician: Good morning, Ms. Jones.
//	Patient: Good morning, doctor.
package transcript

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Role identifies who is speaking.
type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
	RoleUnknown   Role = "unknown"
)

// SpeakerLabels are the recognized speaker names, lower-cased.
var SpeakerLabels = []string{"patient", "physician", "doctor", "dr", "clinician", "nurse"}

// speakerLabel matches a known speaker label followed by a colon. Labels may
// start a line or appear inline, as in "... all done. Doctor: Looks good."
var speakerLabel = regexp.MustCompile(`(?i)\b(` + strings.Join(SpeakerLabels, "|") + `)\s*:`)

// Frontmatter holds optional metadata supplied with a transcript.
type Frontmatter struct {
	Patient string `json:"patient,omitempty" yaml:"patient,omitempty"`
	Exam    string `json:"exam,omitempty" yaml:"exam,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`

	// Source is the document a converted transcript came from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Turn is one speaker's contiguous utterance.
type Turn struct {
	Speaker string `json:"speaker" yaml:"speaker"`
	Role    Role   `json:"role" yaml:"role"`
	Text    string `json:"text" yaml:"text"`
}

// Transcript is a parsed consultation.
type Transcript struct {
	Meta  Frontmatter `json:"meta" yaml:"meta"`
	Body  string      `json:"body" yaml:"body"`
	Turns []Turn      `json:"turns" yaml:"turns"`
}

// Load reads a transcript from path. A path of "-" reads standard input.
func Load(path string) (*Transcript, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading transcript %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse splits raw text into frontmatter, body and turns.
func Parse(raw string) (*Transcript, error) {
	meta, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, err
	}
	return &Transcript{
		Meta:  meta,
		Body:  body,
		Turns: splitTurns(body),
	}, nil
}

// splitFrontmatter separates a leading "---" YAML block from the body.
func splitFrontmatter(raw string) (Frontmatter, string, error) {
	var meta Frontmatter
	trimmed := strings.TrimLeft(raw, "\ufeff \t\r\n")
	if !strings.HasPrefix(trimmed, "---\n") && !strings.HasPrefix(trimmed, "---\r\n") {
		return meta, raw, nil
	}

	rest := "\n" + trimmed[strings.Index(trimmed, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, "", fmt.Errorf("unterminated frontmatter")
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}

	body := rest[end+len("\n---"):]
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return meta, body, nil
}

func splitTurns(body string) []Turn {
	locs := speakerLabel.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		text := normalizeSpace(body)
		if text == "" {
			return nil
		}
		return []Turn{{Role: RoleUnknown, Text: text}}
	}

	var turns []Turn
	if lead := normalizeSpace(body[:locs[0][0]]); lead != "" {
		turns = append(turns, Turn{Role: RoleUnknown, Text: lead})
	}

	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		label := body[loc[2]:loc[3]]
		text := normalizeSpace(body[loc[1]:end])
		if text == "" {
			continue
		}
		turns = append(turns, Turn{
			Speaker: canonicalSpeaker(label),
			Role:    roleOf(label),
			Text:    text,
		})
	}
	return turns
}

func canonicalSpeaker(label string) string {
	switch l := strings.ToLower(label); l {
	case "dr":
		return "Doctor"
	default:
		return strings.ToUpper(l[:1]) + l[1:]
	}
}

func roleOf(label string) Role {
	if strings.EqualFold(label, "patient") {
		return RolePatient
	}
	return RoleClinician
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PatientText joins the patient's turns with single spaces. When no turn
// is attributed to the patient, the whole body is returned.
func (t *Transcript) PatientText() string {
	turns := t.TurnsBy(RolePatient)
	if len(turns) == 0 {
		return normalizeSpace(t.Body)
	}
	parts := make([]string, len(turns))
	for i, turn := range turns {
		parts[i] = turn.Text
	}
	return strings.Join(parts, " ")
}

// StripSpeakers removes speaker labels from body, leaving one line per
// turn. Text without labels is returned unchanged.
func StripSpeakers(body string) string {
	if !speakerLabel.MatchString(body) {
		return body
	}
	turns := splitTurns(body)
	lines := make([]string, len(turns))
	for i, turn := range turns {
		lines[i] = turn.Text
	}
	return strings.Join(lines, "\n")
}

// TurnsBy returns the turns spoken in role.
func (t *Transcript) TurnsBy(role Role) []Turn {
	var out []Turn
	for _, turn := range t.Turns {
		if turn.Role == role {
			out = append(out, turn)
		}
	}
	return out
}
