package normalizer

import (
	"regexp"

	"github.com/interview-sim/interview-service/internal/models"
)

// placeholderLinkPattern matches the dead links the evaluator is known to
// emit: example/test domains, localhost and the loopback address.
var placeholderLinkPattern = regexp.MustCompile(`example\.com|test\.com|localhost|127\.0\.0\.1`)

// learningResourceFallbacks maps known learning-path titles to resources that
// actually resolve, used whenever the evaluator's link is absent or a
// placeholder.
var learningResourceFallbacks = map[string]string{
	"面试表达技巧训练":   "https://www.bilibili.com/video/BV1wF411w7oA",
	"前端开发技能提升课程": "https://www.bilibili.com/video/BV1oz421q7BB",
	"后端开发技能提升课程": "https://www.bilibili.com/video/BV1m84y1w7Tb",
	"全栈开发技能提升课程": "https://www.bilibili.com/video/BV14z4y1N7pg",
}

// BandFor buckets a score for display: >= 80 excellent, >= 60 good,
// otherwise needs improvement. Applied to the total score and to every
// competency sub-score alike.
func BandFor(score float64) models.ScoreBand {
	switch {
	case score >= 80:
		return models.BandExcellent
	case score >= 60:
		return models.BandGood
	default:
		return models.BandNeedsImprovement
	}
}

// NormalizeEvaluation repairs a raw evaluation result into a display-ready
// report. Missing or malformed fields resolve to empty containers and a
// has-no-score presentation instead of failing; normalizing an already clean
// result changes nothing.
func NormalizeEvaluation(raw *models.EvaluationResult) *models.NormalizedEvaluation {
	out := &models.NormalizedEvaluation{
		CoreCompetencies:       map[string]models.CompetencyScore{},
		KeyIssues:              []string{},
		ImprovementSuggestions: []string{},
		LearningPaths:          []models.NormalizedLearningPath{},
	}
	if raw == nil {
		return out
	}

	if raw.TotalScore != nil {
		out.TotalScore = *raw.TotalScore
		out.TotalBand = BandFor(*raw.TotalScore)
		out.HasScore = true
	}

	for name, score := range raw.CoreCompetencies {
		out.CoreCompetencies[name] = models.CompetencyScore{
			Score: score,
			Band:  BandFor(score),
		}
	}

	if raw.KeyIssues != nil {
		out.KeyIssues = append(out.KeyIssues, raw.KeyIssues...)
	}
	if raw.ImprovementSuggestions != nil {
		out.ImprovementSuggestions = append(out.ImprovementSuggestions, raw.ImprovementSuggestions...)
	}
	out.OverallFeedback = raw.OverallFeedback

	for _, path := range raw.LearningPaths {
		out.LearningPaths = append(out.LearningPaths, repairLearningPath(path))
	}

	return out
}

// repairLearningPath substitutes a fallback resource link when the server
// provided none or a placeholder. An item with no usable link at all is kept
// but marked non-actionable so the client disables its start-learning action
// instead of navigating to a dead link.
func repairLearningPath(path models.LearningPath) models.NormalizedLearningPath {
	link := path.ResourceURL
	if link == "" || placeholderLinkPattern.MatchString(link) {
		link = learningResourceFallbacks[path.Title]
	}
	repaired := path
	repaired.ResourceURL = link
	return models.NormalizedLearningPath{
		LearningPath: repaired,
		Actionable:   link != "",
	}
}
