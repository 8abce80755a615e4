package narration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hazard-route-service/internal/platform/httpx"
	"hazard-route-service/internal/platform/obs"
)

// HTTPStyler rewrites one instruction per call through the navigation text-transform service.
type HTTPStyler struct {
	client *httpx.Client
}

func NewHTTPStyler(baseURL string, timeout time.Duration) *HTTPStyler {
	return &HTTPStyler{client: httpx.NewClient(baseURL, timeout)}
}

func (s *HTTPStyler) Style(ctx context.Context, instruction, style string) (_ string, err error) {
	defer obs.Time(ctx, "narration.http.Style")(&err)

	if strings.TrimSpace(style) == "" {
		return instruction, nil
	}

	var out struct {
		ThemedInstruction string `json:"themed_instruction"`
	}
	err = s.client.GetJSON(ctx, "/navigation/instruction", map[string]string{
		"instruction": instruction,
		"style":       style,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("style instruction: %w", err)
	}

	themed := strings.TrimSpace(out.ThemedInstruction)
	if themed == "" {
		return "", errors.New("style instruction: empty themed_instruction")
	}
	return themed, nil
}
