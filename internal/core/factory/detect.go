package factory

import (
	"strings"

	"taskforge/internal/core/domain"
)

// Keyword indicators for best-effort variant classification. Matches are
// counted in both structured fields and free text; the highest score wins.
var (
	workKeywords = []string{
		"work", "client", "meeting", "report", "presentation",
		"deadline", "office", "billable", "invoice", "approval",
	}
	projectKeywords = []string{
		"project", "milestone", "sprint", "release", "deploy",
		"feature", "epic", "dependency", "backlog",
	}
	personalKeywords = []string{
		"home", "family", "health", "gym", "doctor",
		"errand", "shopping", "hobby", "personal",
	}
)

// DetectVariant scores the input against the work, project and personal
// indicator sets. Ties default to personal. This is a heuristic; callers
// that know the variant should pass it explicitly.
func DetectVariant(input domain.CreateTaskInput) domain.TaskVariant {
	text := strings.ToLower(input.Title + " " + input.Description)
	for _, tag := range input.Tags {
		text += " " + strings.ToLower(tag)
	}

	workScore := countMatches(text, workKeywords)
	projectScore := countMatches(text, projectKeywords)
	personalScore := countMatches(text, personalKeywords)

	// Structured fields are a much stronger signal than free text.
	if input.Work != nil {
		workScore += 3
	}
	if input.Project != nil {
		projectScore += 3
	}
	if input.Personal != nil {
		personalScore += 3
	}

	if workScore > projectScore && workScore > personalScore {
		return domain.VariantWork
	}
	if projectScore > workScore && projectScore > personalScore {
		return domain.VariantProject
	}
	return domain.VariantPersonal
}

func countMatches(text string, keywords []string) int {
	score := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			score++
		}
	}
	return score
}
