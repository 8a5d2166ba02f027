package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	TooManyRequests     = 429
	InternalServerError = 500
)

const (
	KindMissingData    = "missing_data"
	KindInvalidContent = "invalid_content"
	KindRateLimited    = "rate_limited"
	KindUnauthorized   = "unauthorized"
	KindInternal       = "internal_error"
)

// ErrorInfo 错误对应的状态码与类别
type ErrorInfo struct {
	Code int
	Kind string
}

var (
	ErrParamInvalid    = errors.New("参数错误")
	ErrMissingPlatform = errors.New("缺少分享平台")
	ErrInvalidContent  = errors.New("内容不存在")
	ErrRateLimited     = errors.New("请求过于频繁，请稍后再试")
	UnauthorizedError  = errors.New("权限不足")
	UnExpectedError    = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]ErrorInfo{
	ErrParamInvalid:    {Code: BadRequest, Kind: KindMissingData},
	ErrMissingPlatform: {Code: BadRequest, Kind: KindMissingData},
	ErrInvalidContent:  {Code: NotFound, Kind: KindInvalidContent},
	ErrRateLimited:     {Code: TooManyRequests, Kind: KindRateLimited},
	UnauthorizedError:  {Code: Forbidden, Kind: KindUnauthorized},
	UnExpectedError:    {Code: InternalServerError, Kind: KindInternal},
}

// Lookup 按 errors.Is 匹配已知错误
func Lookup(err error) (ErrorInfo, bool) {
	if info, ok := ErrorMap[err]; ok {
		return info, true
	}
	for known, info := range ErrorMap {
		if errors.Is(err, known) {
			return info, true
		}
	}
	return ErrorInfo{}, false
}
