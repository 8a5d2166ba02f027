package content

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Info 外部内容系统返回的元数据
type Info struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Resolver 内容协作方。分析引擎只把 contentId 当作不透明标识，存在性和元数据都由它提供
type Resolver interface {
	// Exists 内容是否存在；无法判断时返回 error
	Exists(ctx context.Context, id uint64) (bool, error)
	// Lookup 批量获取元数据，缺失的 id 不出现在结果中
	Lookup(ctx context.Context, ids []uint64) (map[uint64]*Info, error)
	// ResolveURL 由分享链接反查内容 id，无法识别返回 0
	ResolveURL(ctx context.Context, rawURL string) (uint64, error)
}

// idQueryKeys 常见的内容 id 查询参数
var idQueryKeys = []string{"p", "post", "post_id", "content_id", "id"}

// IDFromURL 从链接中解析内容 id：优先查询参数，其次最后一段数字路径
func IDFromURL(rawURL string) uint64 {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return 0
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}

	query := u.Query()
	for _, key := range idQueryKeys {
		if id, err := strconv.ParseUint(query.Get(key), 10, 64); err == nil && id > 0 {
			return id
		}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		if id, err := strconv.ParseUint(segments[i], 10, 64); err == nil && id > 0 {
			return id
		}
		// slug 形式 123-some-title
		head, _, found := strings.Cut(segments[i], "-")
		if found {
			if id, err := strconv.ParseUint(head, 10, 64); err == nil && id > 0 {
				return id
			}
		}
		break
	}
	return 0
}

// StaticResolver 未配置内容服务时使用：所有 id 视为存在，不做元数据补全
type StaticResolver struct{}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{}
}

func (StaticResolver) Exists(_ context.Context, id uint64) (bool, error) {
	return id > 0, nil
}

func (StaticResolver) Lookup(_ context.Context, _ []uint64) (map[uint64]*Info, error) {
	return map[uint64]*Info{}, nil
}

func (StaticResolver) ResolveURL(_ context.Context, rawURL string) (uint64, error) {
	return IDFromURL(rawURL), nil
}
