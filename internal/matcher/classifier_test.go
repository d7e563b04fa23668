package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

func TestCategoryFor_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  types.MatchCategory
	}{
		{0, types.CategoryPoor},
		{29, types.CategoryPoor},
		{30, types.CategoryModerate},
		{69, types.CategoryModerate},
		{70, types.CategoryStrong},
		{100, types.CategoryStrong},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CategoryFor(c.score), "score=%d", c.score)
	}
}

func TestClassifyGaps_ServiceTiersPreferred(t *testing.T) {
	serviceGaps := map[string][]string{
		"Critical":     {"Kubernetes"},
		"Important":    {"GraphQL"},
		"Nice-to-have": {"Terraform"},
	}
	jd := &types.JobDescription{}

	gaps := ClassifyGaps([]string{"Kubernetes", "GraphQL", "Terraform"}, serviceGaps, jd)
	assert.Equal(t, []string{"Kubernetes"}, gaps[types.TierCritical])
	assert.Equal(t, []string{"GraphQL"}, gaps[types.TierImportant])
	assert.Equal(t, []string{"Terraform"}, gaps[types.TierNiceToHave])
}

func TestClassifyGaps_Heuristic(t *testing.T) {
	jd := &types.JobDescription{
		Requirements: []string{
			"五年以上 Kubernetes 生产环境经验", // 前三分之一 → Critical
			"熟悉微服务架构设计",
			"了解服务网格",
			"有 GraphQL 接口开发经验", // 后段提及一次 → Important
			"熟悉持续集成流程",
			"了解容器安全",
		},
	}

	gaps := ClassifyGaps([]string{"Kubernetes", "GraphQL", "Rust"}, nil, jd)

	assert.Contains(t, gaps[types.TierCritical], "Kubernetes")
	assert.Contains(t, gaps[types.TierImportant], "GraphQL")
	// 要求中完全未提及 → 加分项
	assert.Contains(t, gaps[types.TierNiceToHave], "Rust")
}

func TestClassifyGaps_RepeatedMentionIsCritical(t *testing.T) {
	jd := &types.JobDescription{
		Requirements: []string{
			"负责后端服务开发",
			"了解常见中间件",
			"熟悉 Redis 缓存方案",
			"有 Redis 集群运维经验",
		},
	}

	gaps := ClassifyGaps([]string{"Redis"}, nil, jd)
	assert.Contains(t, gaps[types.TierCritical], "Redis")
}

func TestClassifyGaps_EmptyInput(t *testing.T) {
	gaps := ClassifyGaps(nil, nil, &types.JobDescription{})
	require.NotNil(t, gaps)
	assert.Empty(t, gaps)
}
