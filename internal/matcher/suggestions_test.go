package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
)

func TestSynthesizeSuggestions_VerbatimWhenEnough(t *testing.T) {
	service := []string{
		"补充Kubernetes项目经验",
		"量化项目成果",
		"突出容器化部署经历",
	}

	gaps := map[types.GapTier][]string{types.TierImportant: {"Rust"}}
	out := SynthesizeSuggestions(75, gaps, service)
	assert.Equal(t, service, out)
}

func TestSynthesizeSuggestions_NoGapStatementAlwaysPresent(t *testing.T) {
	service := []string{
		"补充Kubernetes项目经验",
		"量化项目成果",
		"突出容器化部署经历",
	}

	// 即使服务建议已经够数，无缺口的事实也必须明说
	out := SynthesizeSuggestions(95, map[types.GapTier][]string{}, service)
	assert.Contains(t, out[0], "没有关键技能缺口")
	assert.LessOrEqual(t, len(out), constants.MaxSuggestions)
}

func TestSynthesizeSuggestions_PaddedFromCriticalGaps(t *testing.T) {
	gaps := map[types.GapTier][]string{
		types.TierCritical: {"Kubernetes", "GraphQL"},
	}

	out := SynthesizeSuggestions(55, gaps, []string{"唯一的一条服务建议"})
	require.GreaterOrEqual(t, len(out), constants.MinSuggestions)
	assert.Equal(t, "唯一的一条服务建议", out[0])
	assert.Contains(t, out[1], "Kubernetes")
	assert.Contains(t, out[2], "GraphQL")
}

func TestSynthesizeSuggestions_GeneralFillWhenNoGaps(t *testing.T) {
	out := SynthesizeSuggestions(80, map[types.GapTier][]string{}, nil)
	require.GreaterOrEqual(t, len(out), constants.MinSuggestions)
	// 无缺口时要有明确的"无关键缺口"表述
	assert.Contains(t, out[0], "没有关键技能缺口")
}

func TestSynthesizeSuggestions_BandByScore(t *testing.T) {
	poor := SynthesizeSuggestions(10, map[types.GapTier][]string{}, nil)
	moderate := SynthesizeSuggestions(50, map[types.GapTier][]string{}, nil)
	strong := SynthesizeSuggestions(90, map[types.GapTier][]string{}, nil)

	assert.NotEqual(t, poor[1], moderate[1])
	assert.NotEqual(t, moderate[1], strong[1])
}

func TestSynthesizeSuggestions_Cap(t *testing.T) {
	service := make([]string, 0, 12)
	for _, s := range []string{
		"建议一", "建议二", "建议三", "建议四", "建议五",
		"建议六", "建议七", "建议八", "建议九", "建议十",
	} {
		service = append(service, s+"：具体的改进说明")
	}

	out := SynthesizeSuggestions(60, map[types.GapTier][]string{}, service)
	assert.Len(t, out, constants.MaxSuggestions)
}

func TestSynthesizeSuggestions_Dedup(t *testing.T) {
	service := []string{"量化项目成果", "量化项目成果", " 量化项目成果 "}

	gaps := map[types.GapTier][]string{types.TierCritical: {"Go"}}
	out := SynthesizeSuggestions(60, gaps, service)
	require.GreaterOrEqual(t, len(out), constants.MinSuggestions)
	assert.Equal(t, "量化项目成果", out[0])
	assert.NotEqual(t, out[0], out[1])
}
