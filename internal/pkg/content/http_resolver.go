package content

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// HTTPResolver 通过 HTTP 调用内容服务
//
//	GET {base}/contents/{id}
//	GET {base}/contents?ids=1,2,3
//	GET {base}/contents/resolve?url=...
type HTTPResolver struct {
	client *resty.Client
}

type lookupResponse struct {
	Items []*Info `json:"items"`
}

type resolveResponse struct {
	ID uint64 `json:"id"`
}

func NewHTTPResolver(baseURL string, timeout time.Duration, token string) *HTTPResolver {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	return &HTTPResolver{client: client}
}

func (r *HTTPResolver) Exists(ctx context.Context, id uint64) (bool, error) {
	if id == 0 {
		return false, nil
	}
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(id, 10)).
		Get("/contents/{id}")
	if err != nil {
		return false, err
	}
	switch {
	case resp.IsSuccess():
		return true, nil
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("content service status %d", resp.StatusCode())
	}
}

func (r *HTTPResolver) Lookup(ctx context.Context, ids []uint64) (map[uint64]*Info, error) {
	result := make(map[uint64]*Info, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(id, 10))
	}

	var body lookupResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(parts, ",")).
		SetResult(&body).
		Get("/contents")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("content service status %d", resp.StatusCode())
	}

	for _, item := range body.Items {
		if item != nil {
			result[item.ID] = item
		}
	}
	return result, nil
}

// ResolveURL 先本地解析，解析不出再询问内容服务
func (r *HTTPResolver) ResolveURL(ctx context.Context, rawURL string) (uint64, error) {
	if id := IDFromURL(rawURL); id > 0 {
		return id, nil
	}
	if strings.TrimSpace(rawURL) == "" {
		return 0, nil
	}

	var body resolveResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("url", rawURL).
		SetResult(&body).
		Get("/contents/resolve")
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return 0, nil
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("content service status %d", resp.StatusCode())
	}
	return body.ID, nil
}
