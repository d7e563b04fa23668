package parser

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var skillsYAML []byte

type skillTaxonomy struct {
	Version   int      `yaml:"version"`
	Technical []string `yaml:"technical"`
	Soft      []string `yaml:"soft"`
}

var (
	taxonomyOnce sync.Once
	taxonomy     skillTaxonomy
	taxonomyErr  error
)

func loadTaxonomy() (skillTaxonomy, error) {
	taxonomyOnce.Do(func() {
		if err := yaml.Unmarshal(skillsYAML, &taxonomy); err != nil {
			taxonomyErr = fmt.Errorf("解析技能词表失败: %w", err)
		}
	})
	return taxonomy, taxonomyErr
}

// ExtractSkills 从文本中抽取词表内出现的技术技能和软技能。
// 返回顺序跟随词表顺序，写法使用词表里的展示写法。
// 两个返回值都保证非 nil
func ExtractSkills(text string) (technical []string, soft []string) {
	technical, soft = []string{}, []string{}
	tax, err := loadTaxonomy()
	if err != nil {
		return technical, soft
	}

	lower := strings.ToLower(text)
	for _, term := range tax.Technical {
		if containsTerm(lower, strings.ToLower(term)) {
			technical = append(technical, term)
		}
	}
	for _, term := range tax.Soft {
		if containsTerm(lower, strings.ToLower(term)) {
			soft = append(soft, term)
		}
	}
	return technical, soft
}

// containsTerm 在已转小写的文本中查找词项，
// 要求词项两侧不是字母或数字，避免 "go" 匹配到 "google" 这类误报。
func containsTerm(lowerText, lowerTerm string) bool {
	if lowerTerm == "" {
		return false
	}
	start := 0
	for start < len(lowerText) {
		idx := strings.Index(lowerText[start:], lowerTerm)
		if idx < 0 {
			return false
		}
		idx += start
		if leftBoundaryOK(lowerText, idx) && rightBoundaryOK(lowerText, idx+len(lowerTerm)) {
			return true
		}
		start = idx + 1
	}
	return false
}

// 中文等非ASCII字符视为边界，"熟悉Python" 也应命中 Python
func leftBoundaryOK(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	return !isASCIIWordByte(s[idx-1])
}

func rightBoundaryOK(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	return !isASCIIWordByte(s[end])
}

func isASCIIWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
