package logger

import (
	"ShareLens/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"
)

// LogWriter gin 访问日志输出，默认 stdout
var LogWriter io.Writer = os.Stdout

var (
	remoteIndex = "logstash-sharelens"
	remoteToken string
)

// InitLogger stdout JSON 日志；配置了 Logstash 时额外把带 trace_id 的记录转发过去
func InitLogger(cfg config.LogstashConfig, level string) {
	opts := &log.HandlerOptions{Level: parseLevel(level)}
	hStdout := log.NewJSONHandler(os.Stdout, opts)

	var finalHandler log.Handler = hStdout

	if cfg.Index != "" {
		remoteIndex = cfg.Index
	}
	remoteToken = cfg.Token

	if cfg.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Address, 3*time.Second)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, opts).
				WithAttrs([]log.Attr{
					log.String("target_index", remoteIndex),
					log.String("log_token", remoteToken),
				})

			finalHandler = &TeeHandler{
				handlers: []log.Handler{hStdout, &RemoteFilterHandler{next: hRemote, untracedLevel: log.LevelError}},
			}
			LogWriter = io.MultiWriter(os.Stdout, conn)
		} else {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "addr", cfg.Address, "err", err)
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
