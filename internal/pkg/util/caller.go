package util

import (
	"ShareLens/internal/pkg/consts"
	"net"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NormalizeIP 校验来源 IP，非法或为空时返回 unknown 占位，第二个返回值表示是否为合法 IP
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == consts.UnknownCallerIP {
		return consts.UnknownCallerIP, raw == consts.UnknownCallerIP
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return consts.UnknownCallerIP, false
	}
	return ip.String(), true
}

// AnonymizeIP IPv4 抹去最后一段，IPv6 保留 /48
func AnonymizeIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}
	return parsed.Mask(net.CIDRMask(48, 128)).String()
}

// HashCaller 来源身份的定长摘要，用于限流 key 与去重统计
func HashCaller(identity string) string {
	return strconv.FormatUint(xxhash.Sum64String(identity), 16)
}
