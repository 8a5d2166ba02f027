package middleware

import (
	"ShareLens/internal/api/dto"
	"ShareLens/internal/pkg/consts"
	log "log/slog"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CallerHeader       = "X-Share-Caller"
	maxCallerHeaderLen = 128
)

// CallerMiddleware 解析来源身份。X-Share-Caller 只接受来自受信任代理的请求，
// 其余请求一律以客户端 IP 作为限流身份
func CallerMiddleware(trustedProxies []string) gin.HandlerFunc {
	trusted := parseTrustedNets(trustedProxies)
	return func(c *gin.Context) {
		caller := &dto.Caller{IP: c.ClientIP()}
		if id := strings.TrimSpace(c.GetHeader(CallerHeader)); id != "" && len(id) <= maxCallerHeaderLen {
			if fromTrusted(trusted, c.RemoteIP()) {
				caller.ID = id
			}
		}
		c.Set(consts.ContextCallerKey, caller)
		c.Next()
	}
}

// GetCaller 读取 CallerMiddleware 注入的来源身份
func GetCaller(c *gin.Context) *dto.Caller {
	if v, ok := c.Get(consts.ContextCallerKey); ok {
		if caller, ok := v.(*dto.Caller); ok {
			return caller
		}
	}
	return &dto.Caller{IP: c.ClientIP()}
}

// parseTrustedNets 支持单个 IP 与 CIDR，无法解析的条目忽略
func parseTrustedNets(entries []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				log.Warn("ignore invalid trusted proxy", "entry", entry)
				continue
			}
			bits := 128
			if v4 := ip.To4(); v4 != nil {
				ip, bits = v4, 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			log.Warn("ignore invalid trusted proxy", "entry", entry, "err", err)
			continue
		}
		nets = append(nets, ipNet)
	}
	return nets
}

func fromTrusted(nets []*net.IPNet, remoteIP string) bool {
	ip := net.ParseIP(remoteIP)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
