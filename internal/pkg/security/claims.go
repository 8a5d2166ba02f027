package security

import (
	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "sharelens"

// AccessClaims 上游签发的访问凭据，tier 决定能否查看真实数据
type AccessClaims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}
