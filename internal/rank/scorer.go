package rank

import (
	"math"
	"strings"

	"aidjobs-engine/internal/domain"
)

type Scorer interface {
	Score(p domain.JobPosting) float64
}

// ScoreFields selects which auxiliary field joins the title in the scored blob.
type ScoreFields string

const (
	TitleOrganization ScoreFields = "title_organization"
	TitleDescription  ScoreFields = "title_description"
)

// DefaultVocabulary is the public health M&E keyword set used when the config
// doesn't provide one.
var DefaultVocabulary = []string{
	"public health", "monitoring", "evaluation", "m&e", "data",
	"health", "strategic information", "commcare", "dhis2",
	"survey", "research", "impact assessment", "health program",
	"global health", "health systems", "epidemiology",
	"maternal", "child health", "hiv", "tb", "malaria", "nutrition",
}

// VocabularyScorer scores a posting as the fraction of its vocabulary found
// (case-insensitive substring match) in the posting's text blob, rounded to
// two decimal places. It only tags; it never drops postings.
type VocabularyScorer struct {
	Vocabulary []string
	Fields     ScoreFields
}

func NewVocabularyScorer(vocabulary []string, fields ScoreFields) VocabularyScorer {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	if fields == "" {
		fields = TitleOrganization
	}
	return VocabularyScorer{Vocabulary: vocabulary, Fields: fields}
}

func (s VocabularyScorer) Score(p domain.JobPosting) float64 {
	// title_description scores the title alone when a posting has no
	// description text, which none of the current sources provide.
	aux := ""
	if s.Fields == TitleOrganization {
		aux = p.Organization
	}
	blob := strings.ToLower(strings.TrimSpace(p.Title + " " + aux))
	if blob == "" || len(s.Vocabulary) == 0 {
		return 0
	}

	matches := 0
	for _, kw := range s.Vocabulary {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(blob, kw) {
			matches++
		}
	}
	return Round2(float64(matches) / float64(len(s.Vocabulary)))
}

// IsRelevant applies the configured threshold to an already-computed score.
func IsRelevant(score, threshold float64) bool {
	return score >= threshold
}

func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
