package matcher

import (
	"fmt"
	"strings"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
)

// 按分数档次准备的通用改进建议
var (
	strongBandSuggestions = []string{
		"对照岗位描述微调关键词的表述，使核心技能在简历前半部分更突出",
		"为最相关的项目经历补充可量化的成果数据，强化已有优势",
		"精简与该岗位关联较弱的内容，让篇幅集中在高匹配经历上",
	}
	moderateBandSuggestions = []string{
		"围绕岗位核心要求重组工作经历描述，突出最相关的职责和成果",
		"在技能部分补充岗位要求中已具备但未写明的技术和工具",
		"为相关项目补充规模、复杂度和个人贡献的具体说明",
	}
	poorBandSuggestions = []string{
		"重新审视简历结构，围绕该岗位的核心要求重写个人摘要",
		"通过项目实践或培训补齐岗位要求的关键技能，并在简历中体现",
		"如缺口过大，考虑先瞄准要求更接近当前背景的相关岗位",
	}
)

// 无缺口时的固定说明
const noGapStatement = "当前简历没有关键技能缺口，可集中精力打磨表述质量"

// SynthesizeSuggestions 合成最终建议列表：服务端的合格建议原样保留，
// 不足三条时先按关键缺口逐个补充，再用档次通用建议填满，上限七条。
func SynthesizeSuggestions(score int, gaps map[types.GapTier][]string, serviceSuggestions []string) []string {
	out := make([]string, 0, constants.MaxSuggestions)
	seen := make(map[string]struct{})

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(out) >= constants.MaxSuggestions {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	// 没有任何缺口时必须明说，不能默不作声，先占一席避免被上限挤掉
	if len(gaps) == 0 {
		add(noGapStatement)
	}

	for _, s := range serviceSuggestions {
		add(s)
	}

	// 关键缺口优先，其次重要缺口
	if len(out) < constants.MinSuggestions {
		for _, skill := range gaps[types.TierCritical] {
			add(fmt.Sprintf("补充 %s 相关的实际项目经验或技能描述，这是该岗位的关键要求", skill))
			if len(out) >= constants.MinSuggestions {
				break
			}
		}
	}
	if len(out) < constants.MinSuggestions {
		for _, skill := range gaps[types.TierImportant] {
			add(fmt.Sprintf("在简历中体现 %s 方面的经验，有助于提升与岗位的匹配度", skill))
			if len(out) >= constants.MinSuggestions {
				break
			}
		}
	}

	for _, s := range bandSuggestions(score) {
		if len(out) >= constants.MinSuggestions {
			break
		}
		add(s)
	}
	return out
}

func bandSuggestions(score int) []string {
	switch {
	case score >= constants.StrongScoreFloor:
		return strongBandSuggestions
	case score >= constants.ModerateScoreFloor:
		return moderateBandSuggestions
	default:
		return poorBandSuggestions
	}
}
