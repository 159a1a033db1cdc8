package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"autotag/internal/services"
)

const maxCoverBytes = 10 << 20

var coverClient = &http.Client{Timeout: 30 * time.Second}

// FetchCover downloads cover art. Covers live on per-provider CDN hosts, so
// the download is a plain one-shot GET rather than a gateway call.
func FetchCover(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, services.Wrap(services.ErrValidation, "media", "fetch cover", "empty URL", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "media", "fetch cover", "build request", err)
	}
	resp, err := coverClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "media", "fetch cover", "download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "media", "fetch cover",
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "media", "fetch cover", "read body", err)
	}
	return data, nil
}
