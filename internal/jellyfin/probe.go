package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const probeTimeout = 10 * time.Second

// Probe checks that the URL points at a reachable Jellyfin server and
// returns its public system info. /System/Info/Public is
// unauthenticated, so this works before login.
func Probe(ctx context.Context, serverURL string) (*SystemInfo, error) {
	serverURL = strings.TrimRight(serverURL, "/")

	client := &http.Client{Timeout: probeTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/System/Info/Public", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var info SystemInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("not a Jellyfin server: %w", err)
	}
	if info.Version == "" && info.ServerName == "" {
		return nil, fmt.Errorf("not a Jellyfin server")
	}

	return &info, nil
}
