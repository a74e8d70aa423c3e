package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// ProbeDuration asks ffprobe for the duration of src in seconds. src may be a
// local path or a URL.
func ProbeDuration(ctx context.Context, ffprobe, src string) (float64, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "quiet", "-print_format", "json", "-show_format", src)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", src, err)
	}

	var data struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &data); err != nil {
		return 0, fmt.Errorf("ffprobe output: %w", err)
	}
	d, err := strconv.ParseFloat(data.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", data.Format.Duration, err)
	}
	return d, nil
}
