package consts

const (
	// UnknownCallerIP 无法解析来源 IP 时的占位
	UnknownCallerIP = "unknown"
)

const (
	DateLayout = "2006-01-02"
)

const (
	UnknownContentTitle = "Unknown Post"
	UnknownContentType  = "unknown"
	SiteWideTitle       = "Site-wide"
)

const (
	ContextElevatedKey = "elevated"
	ContextCallerKey   = "caller"
)
