package parser

import (
	"regexp"
	"strconv"
	"strings"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
)

// 职位描述解析用的节标题和关键词，中英文岗位描述都要能识别
var (
	reRequirementHeader = regexp.MustCompile(`(?i)^(requirements?|required skills?|qualifications?|minimum (qualifications?|requirements?)|must.?haves?|what (we need|you need|you bring)|任职要求|岗位要求|职位要求|技能要求)\s*[:：]?\s*$`)
	reDutyHeader        = regexp.MustCompile(`(?i)^(responsibilit(y|ies)|duties|what you('ll| will) do|about the role|岗位职责|工作职责|工作内容)\s*[:：]?\s*$`)
	reSectionHeader     = regexp.MustCompile(`(?i)^[a-z][a-z /&'-]{2,40}\s*[:：]?\s*$|^[\p{Han}]{2,12}\s*[:：]?\s*$`)
	reBulletPrefix      = regexp.MustCompile(`^[•\-\*\d]+[.)、]? ?`)
	reRequirementClue   = regexp.MustCompile(`(?i)\b(required|must have|must be|experience (with|in)|proficien|familiar(ity)? with|knowledge of|degree in|years? of)\b|熟悉|精通|熟练|掌握|经验|本科|学历`)

	reSenior = regexp.MustCompile(`(?i)\b(senior|staff|principal|lead|architect)\b|资深|高级|专家|架构师`)
	reJunior = regexp.MustCompile(`(?i)\b(junior|entry.?level|intern(ship)?|graduate)\b|初级|实习|应届`)
	reMid    = regexp.MustCompile(`(?i)\bmid.?level\b|中级`)
	reYears  = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:年|years?)`)
)

// NormalizeJobDescription 校验并结构化职位描述文本。
// 校验失败立即返回，不会触发任何后续的服务调用。
func NormalizeJobDescription(text string) (*types.JobDescription, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, NewEmptyJobDescriptionError()
	}
	if len([]rune(trimmed)) > constants.MaxJobDescriptionChars {
		return nil, NewJobDescriptionTooLongError(len([]rune(trimmed)))
	}

	cleaned := CleanResumeText(trimmed)
	lines := strings.Split(cleaned, "\n")

	jd := &types.JobDescription{RawText: cleaned}
	jd.Title = detectTitle(lines)
	jd.Requirements = collectRequirements(lines)
	jd.Responsibilities = collectResponsibilities(lines)
	jd.TechnicalSkills, jd.SoftSkills = ExtractSkills(cleaned)
	jd.SeniorityHint = detectSeniority(cleaned)

	return jd, nil
}

// detectTitle 取第一条非空行作为职位名，过长或带列表标记的行不算
func detectTitle(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len([]rune(line)) >= 80 {
			return ""
		}
		if reBulletPrefix.MatchString(line) {
			return ""
		}
		if strings.HasSuffix(line, ":") || strings.HasSuffix(line, "：") {
			return ""
		}
		return line
	}
	return ""
}

func collectRequirements(lines []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	inSection := false

	add := func(s string) {
		s = strings.TrimSpace(reBulletPrefix.ReplaceAllString(strings.TrimSpace(s), ""))
		if len([]rune(s)) < 5 {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case reRequirementHeader.MatchString(trimmed):
			inSection = true
			continue
		case reDutyHeader.MatchString(trimmed), inSection && reSectionHeader.MatchString(trimmed):
			inSection = false
			continue
		}
		if inSection || reRequirementClue.MatchString(trimmed) {
			add(trimmed)
		}
		if len(out) >= constants.MaxRequirements {
			break
		}
	}
	return out
}

func collectResponsibilities(lines []string) []string {
	out := []string{}
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case reDutyHeader.MatchString(trimmed):
			inSection = true
			continue
		case reRequirementHeader.MatchString(trimmed), inSection && reSectionHeader.MatchString(trimmed):
			inSection = false
			continue
		}
		if inSection {
			item := strings.TrimSpace(reBulletPrefix.ReplaceAllString(trimmed, ""))
			if len([]rune(item)) >= 5 {
				out = append(out, item)
			}
			if len(out) >= constants.MaxResponsibilities {
				break
			}
		}
	}
	return out
}

func detectSeniority(text string) string {
	switch {
	case reSenior.MatchString(text):
		return "senior"
	case reJunior.MatchString(text):
		return "junior"
	case reMid.MatchString(text):
		return "mid"
	}
	// 没有显式级别词时，根据工作年限要求推断
	if m := reYears.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			switch {
			case years >= 5:
				return "senior"
			case years >= 3:
				return "mid"
			default:
				return "junior"
			}
		}
	}
	return ""
}
