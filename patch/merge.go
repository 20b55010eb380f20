package patch

import (
	"fmt"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Empty is the merge patch of two equal documents.
const Empty = "{}"

// Diff returns the RFC 7386 merge patch turning before into after.
func Diff[T any](before, after T) ([]byte, error) {
	beforeJSON, err := sonic.Marshal(before)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal previous state: %w", err)
	}
	afterJSON, err := sonic.Marshal(after)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal next state: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(beforeJSON, afterJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge patch: %w", err)
	}
	return patch, nil
}

// Apply merges patch into current and decodes the result back into T.
func Apply[T any](current T, patch []byte) (T, error) {
	var zero T
	if len(patch) == 0 {
		return current, nil
	}
	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal current state: %w", err)
	}
	modifiedJSON, err := jsonpatch.MergePatch(currentJSON, patch)
	if err != nil {
		return zero, fmt.Errorf("failed to apply patch: %w", err)
	}
	var result T
	if err := sonic.Unmarshal(modifiedJSON, &result); err != nil {
		return zero, fmt.Errorf("type mismatch: patch would result in invalid type T: %w", err)
	}
	return result, nil
}

// IsEmpty reports whether patch changes nothing.
func IsEmpty(patch []byte) bool {
	return len(patch) == 0 || string(patch) == Empty
}
