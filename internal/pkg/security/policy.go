package security

import (
	"context"
	log "log/slog"
	"slices"
)

// AccessPolicy 决定请求方能否查看真实分析数据，拿不到权限时展示演示数据
type AccessPolicy interface {
	Elevated(ctx context.Context, authHeader string) bool
}

// StaticPolicy 固定结果，未配置 JWT 时使用
type StaticPolicy struct {
	Allow bool
}

func (p StaticPolicy) Elevated(context.Context, string) bool {
	return p.Allow
}

// TierPolicy 按 JWT 中的 tier 判断，缺少或无效的凭据回落到 Fallback
type TierPolicy struct {
	Secret   string
	Tiers    []string
	Fallback bool
}

func NewTierPolicy(secret string, tiers []string, fallback bool) *TierPolicy {
	return &TierPolicy{Secret: secret, Tiers: tiers, Fallback: fallback}
}

func (p *TierPolicy) Elevated(ctx context.Context, authHeader string) bool {
	token, ok := BearerToken(authHeader)
	if !ok {
		return p.Fallback
	}
	claims, err := ValidateToken(p.Secret, token)
	if err != nil {
		log.DebugContext(ctx, "access token rejected", "err", err)
		return p.Fallback
	}
	return slices.Contains(p.Tiers, claims.Tier)
}
