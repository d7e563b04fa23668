package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateMiddle(t *testing.T) {
	t.Run("短文本原样返回", func(t *testing.T) {
		assert.Equal(t, "短文本", TruncateMiddle("短文本", 100))
	})

	t.Run("长文本保留首尾", func(t *testing.T) {
		s := strings.Repeat("a", 500) + strings.Repeat("z", 500)
		out := TruncateMiddle(s, 200)

		assert.LessOrEqual(t, len([]rune(out)), 200)
		assert.Contains(t, out, ElisionMarker)
		assert.True(t, strings.HasPrefix(out, "a"))
		assert.True(t, strings.HasSuffix(out, "z"))
	})

	t.Run("预算放不下标记时直接硬截", func(t *testing.T) {
		out := TruncateMiddle("abcdefghij", 5)
		assert.Equal(t, "abcde", out)
	})
}

func TestSafeLogValue(t *testing.T) {
	masked := SafeLogValue("user_email", "zhangsan@example.com")
	assert.NotContains(t, masked, "zhangsan@example")
	assert.True(t, strings.HasPrefix(masked, "zh"))

	long := strings.Repeat("简历内容", 100)
	excerpt := SafeLogValue("resume_text", long)
	assert.LessOrEqual(t, len([]rune(excerpt)), MaxLogExcerpt)
}

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "张*", MaskPII("张三"))
	assert.Equal(t, "13*******90", MaskPII("13800000090"))
}
