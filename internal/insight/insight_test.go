package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/greenledger/carbon_ledger/internal/domain"
)

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindClassification, KindSummary, KindOffset, KindRegulation, KindReduction} {
		assert.True(t, k.Valid(), "kind %q", k)
	}
	assert.False(t, Kind("poetry").Valid())
	assert.False(t, Kind("").Valid())
}

func TestBuildPromptIncludesContextJSON(t *testing.T) {
	in := PromptContext{
		Profile: domain.CompanyProfile{
			Name:          "Green Tech Solutions",
			Industry:      "Technology",
			EmployeeCount: 10,
			Location:      "India",
		},
		Aggregates: &domain.AggregateResult{
			TotalKgCO2e: 28000,
			EntryCount:  42,
			ByCategory: []domain.GroupTotal{
				{Key: "Electricity", EmissionsKgCO2e: 20000},
			},
		},
	}

	prompt, err := buildPrompt(KindReduction, in)
	require.NoError(t, err)
	assert.Contains(t, prompt, "reduction measures")
	// 上下文以 JSON 附在正文后
	assert.Contains(t, prompt, `"total_kgCO2e": 28000`)
	assert.Contains(t, prompt, "Green Tech Solutions")
}

func TestBuildPromptClassificationUsesDescription(t *testing.T) {
	prompt, err := buildPrompt(KindClassification, PromptContext{
		Description: "We bought 500 liters of diesel for the backup generator",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "backup generator")
	assert.Contains(t, prompt, "Scope 1, 2 or 3")
}

func TestBuildPromptPerKindIsDistinct(t *testing.T) {
	kinds := []Kind{KindClassification, KindSummary, KindOffset, KindRegulation, KindReduction}
	seen := map[string]Kind{}
	for _, k := range kinds {
		prompt, err := buildPrompt(k, PromptContext{Description: "x"})
		require.NoError(t, err)
		body := strings.SplitN(prompt, "\n\nContext", 2)[0]
		if prev, dup := seen[body]; dup {
			t.Fatalf("kinds %q and %q share the same prompt body", prev, k)
		}
		seen[body] = k
	}
}

// rateLimitedModel 永远返回 429，用来驱动重试退避路径
type rateLimitedModel struct{}

func (rateLimitedModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, errors.New("429 Too Many Requests")
}

func (rateLimitedModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("429 Too Many Requests")
}

func (rateLimitedModel) BindTools(tools []*schema.ToolInfo) error { return nil }

func TestGenerateBackoffHonorsCancellation(t *testing.T) {
	eng := &Engine{
		chatModel: rateLimitedModel{},
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := eng.Generate(ctx, KindSummary, PromptContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	// 取消立刻生效，不等 2s 退避走完
	assert.Less(t, time.Since(start), time.Second)
}

func TestSystemPromptPerKind(t *testing.T) {
	assert.Contains(t, systemPrompt(KindClassification), "GHG Protocol")
	assert.Contains(t, systemPrompt(KindRegulation), "CBAM")
	assert.Contains(t, systemPrompt(KindOffset), "offset")
	// 未知类型落到减排专家的默认角色
	assert.Contains(t, systemPrompt(Kind("other")), "reduction")
}
