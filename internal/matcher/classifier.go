package matcher

import (
	"strings"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
)

// CategoryFor 根据分数判定匹配档次
func CategoryFor(score int) types.MatchCategory {
	switch {
	case score >= constants.StrongScoreFloor:
		return types.CategoryStrong
	case score >= constants.ModerateScoreFloor:
		return types.CategoryModerate
	default:
		return types.CategoryPoor
	}
}

// ClassifyGaps 对缺失技能分层。服务端给出的分层优先；
// 否则按技能在岗位要求中的位置和出现频次做确定性启发式判定。
// 没有缺失技能时返回空的非nil映射。
func ClassifyGaps(missingSkills []string, serviceGaps map[string][]string, jd *types.JobDescription) map[types.GapTier][]string {
	gaps := make(map[types.GapTier][]string)
	if len(missingSkills) == 0 && len(serviceGaps) == 0 {
		return gaps
	}

	if hasServiceTiers(serviceGaps) {
		for _, tier := range types.GapTiers {
			if items := dedupPreservingCase(serviceGaps[string(tier)]); len(items) > 0 {
				gaps[tier] = items
			}
		}
		return gaps
	}

	reqLines := jd.Requirements
	if len(reqLines) == 0 {
		reqLines = strings.Split(jd.RawText, "\n")
	}
	firstThird := (len(reqLines) + 2) / 3

	for _, skill := range missingSkills {
		tier := classifySkill(skill, reqLines, firstThird)
		gaps[tier] = append(gaps[tier], skill)
	}
	return gaps
}

func hasServiceTiers(serviceGaps map[string][]string) bool {
	for _, tier := range types.GapTiers {
		if len(serviceGaps[string(tier)]) > 0 {
			return true
		}
	}
	return false
}

// classifySkill 启发式分层：出现在要求前三分之一或被提及至少两次的为关键缺口，
// 后段提及一次的为重要缺口，其余为加分项
func classifySkill(skill string, reqLines []string, firstThird int) types.GapTier {
	lowerSkill := strings.ToLower(skill)
	mentions := 0
	firstIdx := -1
	for i, line := range reqLines {
		if strings.Contains(strings.ToLower(line), lowerSkill) {
			mentions++
			if firstIdx < 0 {
				firstIdx = i
			}
		}
	}

	switch {
	case mentions >= 2, firstIdx >= 0 && firstIdx < firstThird:
		return types.TierCritical
	case mentions == 1:
		return types.TierImportant
	default:
		return types.TierNiceToHave
	}
}
