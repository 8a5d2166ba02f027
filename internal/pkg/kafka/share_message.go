package kafka

// ShareMessage 服务端转发的分享事件（例如邮件、站内分享），属于可信来源
type ShareMessage struct {
	Platform  string `json:"platform"`
	ContentID uint64 `json:"contentId"`
	URL       string `json:"url"`
	CallerID  string `json:"callerId"`
	CallerIP  string `json:"callerIp"`
}
