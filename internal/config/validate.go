package config

import (
	"fmt"
	"strings"

	"aidjobs-engine/internal/domain"
	"aidjobs-engine/internal/rank"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes list fields, fills defaults, and
// returns a normalized copy plus everything a UI should surface. A config with
// Errors must not start a run.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Terms = trimList(out.Search.Terms)
	out.Search.Sites = trimList(out.Search.Sites)
	out.Scoring.Keywords = trimList(out.Scoring.Keywords)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if len(out.Search.Terms) == 0 {
		res.addErr("search.terms: select at least one search term")
	}
	if len(out.Search.Sites) == 0 {
		res.addErr("search.sites: select at least one site to scrape")
	}
	for _, s := range out.Search.Sites {
		if _, ok := domain.ParseSource(s); !ok {
			res.addErr("search.sites: unknown site %q (known: reliefweb, unjobs, devex)", s)
		}
	}
	if out.Search.MaxPerTerm <= 0 {
		res.addErr("search.max_per_term must be > 0")
	} else if out.Search.MaxPerTerm > 50 {
		res.addWarn("search.max_per_term is high (%d); expect slow runs.", out.Search.MaxPerTerm)
	}

	if out.Scraping.TimeoutSeconds <= 0 {
		out.Scraping.TimeoutSeconds = 10
	}
	if out.Scraping.RequestsPerSecond <= 0 {
		out.Scraping.RequestsPerSecond = 1
	}
	if out.Scraping.SiteDelaySeconds < 0 || out.Scraping.TermDelaySeconds < 0 {
		res.addErr("scraping delays must be >= 0")
	}
	if out.Scraping.SiteDelaySeconds == 0 && out.Scraping.TermDelaySeconds == 0 {
		res.addWarn("both politeness delays are zero; upstream sites may rate-limit you.")
	}

	if out.Scoring.Threshold < 0 || out.Scoring.Threshold > 1 {
		res.addErr("scoring.threshold must be within [0,1]")
	}
	switch rank.ScoreFields(out.Scoring.ScoreFields) {
	case rank.TitleOrganization, rank.TitleDescription:
	case "":
		out.Scoring.ScoreFields = string(rank.TitleOrganization)
	default:
		res.addErr("scoring.score_fields must be title_organization or title_description")
	}
	if len(out.Scoring.Keywords) == 0 {
		res.addWarn("scoring.keywords is empty; the built-in public health vocabulary will be used.")
	}

	return out, res
}
