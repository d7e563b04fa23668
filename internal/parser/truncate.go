package parser

import (
	"strings"
)

const (
	// ElisionMarker 中段省略时插入的标记
	ElisionMarker = "\n...[中间内容已省略]...\n"

	// MaxLogExcerpt 写入日志的文本片段最大长度
	MaxLogExcerpt = 150
)

// TruncateMiddle 将字符串截断到 maxLength 个 rune，保留首尾、丢弃中段并插入省略标记。
// 简历的开头（联系方式/摘要）和结尾（最近经历）通常信息密度最高。
func TruncateMiddle(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	marker := []rune(ElisionMarker)
	if maxLength <= len(marker)+2 {
		return string(runes[:maxLength])
	}

	// 前 60% 的预算给开头，其余给结尾
	budget := maxLength - len(marker)
	head := budget * 6 / 10
	tail := budget - head
	if head < 1 {
		head = 1
	}
	if tail < 1 {
		tail = 1
	}

	return string(runes[:head]) + ElisionMarker + string(runes[len(runes)-tail:])
}

// maskPIILookup 日志中需要掩码处理的关键字
var maskPIILookup = map[string]bool{
	"email":    true,
	"phone":    true,
	"身份证":      true,
	"address":  true,
	"地址":       true,
	"name":     true,
	"姓名":       true,
	"secret":   true,
	"token":    true,
	"password": true,
}

// SafeLogValue 确保写入日志的属性值安全：敏感字段打码，过长的值截断
func SafeLogValue(name string, value string) string {
	lowerName := strings.ToLower(name)
	for keyword := range maskPIILookup {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateMiddle(value, MaxLogExcerpt)
}

// MaskPII 对个人敏感信息进行掩码处理
func MaskPII(value string) string {
	if value == "" {
		return ""
	}

	runes := []rune(value)
	length := len(runes)

	if length <= 1 {
		return "*"
	}
	if length <= 4 {
		if length == 2 {
			return string(runes[0:1]) + "*"
		}
		return string(runes[0:1]) + strings.Repeat("*", length-2) + string(runes[length-1:])
	}

	// 较长的字符串（邮箱/手机号）保留前后各两位
	return string(runes[0:2]) + strings.Repeat("*", length-4) + string(runes[length-2:])
}
