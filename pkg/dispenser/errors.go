package dispenser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	z "github.com/Oudwins/zog"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDispatchFailure = errors.New("dispatch failure")
	ErrNotFound        = errors.New("not found")
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// issuesError flattens zog issues into an ErrInvalidArgument.
func issuesError(issues z.ZogIssueMap) error {
	if len(issues) == 0 {
		return nil
	}

	keys := make([]string, 0, len(issues))
	for k := range issues {
		if !strings.HasPrefix(k, "$") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, issue := range issues[k] {
			parts = append(parts, k+": "+issue.Message)
		}
	}
	return invalidArgument("%s", strings.Join(parts, "; "))
}
