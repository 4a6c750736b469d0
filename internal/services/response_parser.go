package services

import (
	"regexp"
	"strings"

	"animal_identifier_go_backend/internal/models"

	"github.com/rs/zerolog/log"
)

const defaultCommonName = "Unknown Animal"

var (
	headingMarkers  = regexp.MustCompile(`#{1,6}\s`)
	nonWordOrSpace  = regexp.MustCompile(`[^\w\s]`)
	lowercasePair   = regexp.MustCompile(`^[a-z]+ [a-z]+$`)
	titleCasePhrase = regexp.MustCompile(`\b([A-Z][a-z]+ )?[A-Z][a-z]+ [A-Z][a-z]+\b`)
	titleCasePair   = regexp.MustCompile(`\b[A-Z][a-z]+ [a-z]+\b`)
)

// labelRules maps label synonyms to profile fields. Order matters: the
// specific labels ("common name:", "scientific name:", "latin name:") must be
// tried before the bare "name:" synonym, or a "Scientific Name:" line would
// be captured as the common name. The first matching synonym wins per line.
type labelRule struct {
	label  string
	assign func(*models.AnimalProfile, string)
}

var labelRules = []labelRule{
	{"common name:", func(p *models.AnimalProfile, v string) { p.CommonName = v }},
	{"scientific name:", func(p *models.AnimalProfile, v string) { p.ScientificName = v }},
	{"latin name:", func(p *models.AnimalProfile, v string) { p.ScientificName = v }},
	{"name:", func(p *models.AnimalProfile, v string) { p.CommonName = v }},
	{"size:", func(p *models.AnimalProfile, v string) { p.Size = v }},
	{"length:", func(p *models.AnimalProfile, v string) { p.Size = v }},
	{"height:", func(p *models.AnimalProfile, v string) { p.Size = v }},
	{"habitat:", func(p *models.AnimalProfile, v string) { p.Habitat = v }},
	{"found in:", func(p *models.AnimalProfile, v string) { p.Habitat = v }},
	{"location:", func(p *models.AnimalProfile, v string) { p.Habitat = v }},
	{"diet:", func(p *models.AnimalProfile, v string) { p.Diet = v }},
	{"eats:", func(p *models.AnimalProfile, v string) { p.Diet = v }},
	{"food:", func(p *models.AnimalProfile, v string) { p.Diet = v }},
	{"fact:", func(p *models.AnimalProfile, v string) { p.FunFact = v }},
	{"interesting:", func(p *models.AnimalProfile, v string) { p.FunFact = v }},
	{"trivia:", func(p *models.AnimalProfile, v string) { p.FunFact = v }},
	{"category:", func(p *models.AnimalProfile, v string) { p.Category = v }},
	{"type:", func(p *models.AnimalProfile, v string) { p.Category = v }},
	{"class:", func(p *models.AnimalProfile, v string) { p.Category = v }},
}

// ResponseParser extracts a fixed-shape AnimalProfile from the vision model's
// free-text answer. The model is asked for a seven-label format but does not
// always comply, so parsing is a chain of fallbacks and never fails: missing
// fields keep their defaults and unparseable text is preserved as the fun fact.
type ResponseParser struct{}

func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

func defaultProfile() models.AnimalProfile {
	return models.AnimalProfile{
		CommonName: defaultCommonName,
		Size:       "Varies",
		Habitat:    "Unknown",
		Diet:       "Unknown",
		Category:   "Animal",
	}
}

// Parse converts the raw model answer into an AnimalProfile. It is a pure
// function of its input and never panics past this boundary.
func (p *ResponseParser) Parse(raw string) (profile models.AnimalProfile) {
	profile = defaultProfile()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Error parsing animal response")
			profile = defaultProfile()
			profile.FunFact = raw
		}
	}()

	lines := splitLines(stripMarkdown(raw))

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, rule := range labelRules {
			if strings.Contains(lower, rule.label) {
				rule.assign(&profile, valueAfterLabel(line))
				break
			}
		}
	}

	// No labeled line yielded a name: the first line often carries it.
	if profile.CommonName == defaultCommonName && len(lines) > 0 {
		profile.CommonName = strings.TrimSpace(nonWordOrSpace.ReplaceAllString(lines[0], ""))
	}

	// Two lowercase words in the common-name slot is almost certainly a Latin
	// binomial the model put in the wrong field. Recover the real common name
	// from the fun fact when a capitalized phrase is present.
	if lowercasePair.MatchString(strings.TrimSpace(profile.CommonName)) && profile.FunFact != "" {
		if phrase := commonNamePhrase(profile.FunFact); phrase != "" {
			if profile.ScientificName == "" {
				profile.ScientificName = strings.TrimSpace(profile.CommonName)
			}
			profile.CommonName = phrase
		}
	}

	// A substantial trailing line is usually the fact; short ones are noise.
	if profile.FunFact == "" && len(lines) > 1 {
		if last := lines[len(lines)-1]; len(last) > 20 {
			profile.FunFact = last
		}
	}

	return profile
}

func stripMarkdown(s string) string {
	return headingMarkers.ReplaceAllString(strings.ReplaceAll(s, "*", ""), "")
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// valueAfterLabel keeps everything after the first colon, so colons inside
// the value itself survive.
func valueAfterLabel(line string) string {
	parts := strings.Split(line, ":")
	return strings.TrimSpace(strings.Join(parts[1:], ":"))
}

// commonNamePhrase finds a capitalized two-or-three-word phrase to use as a
// common name, dropping a leading English article.
func commonNamePhrase(text string) string {
	match := titleCasePhrase.FindString(text)
	if match == "" {
		match = titleCasePair.FindString(text)
	}
	for _, article := range []string{"The ", "A ", "An "} {
		match = strings.TrimPrefix(match, article)
	}
	return strings.TrimSpace(match)
}
