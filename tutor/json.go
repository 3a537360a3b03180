package tutor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeArtifact extracts the first JSON object from a model completion and
// unmarshals it into v. Models often wrap the object in prose or markdown
// fences, so everything outside the outermost braces is discarded.
func decodeArtifact(completion string, v any) error {
	start := strings.Index(completion, "{")
	end := strings.LastIndex(completion, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in completion")
	}
	if err := json.Unmarshal([]byte(completion[start:end+1]), v); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}
