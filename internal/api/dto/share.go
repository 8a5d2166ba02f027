package dto

// ShareRequest 分享上报，兼容 JSON 与表单提交
type ShareRequest struct {
	Platform  string `json:"platform" form:"platform" binding:"required" validate:"max=32"`
	ContentID uint64 `json:"contentId" form:"contentId"`
	URL       string `json:"url" form:"url" validate:"omitempty,max=2048"`
}

// Caller 传输层解析出的来源身份
type Caller struct {
	ID string
	IP string
}

// ShareAckDTO 上报成功回执，计数为尽力而为，可能滞后
type ShareAckDTO struct {
	Success   bool   `json:"success"`
	Platform  string `json:"platform"`
	Count     int64  `json:"count"`
	Total     int64  `json:"total"`
	ContentID uint64 `json:"contentId"`
}
