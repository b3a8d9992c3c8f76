package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// SkipRejectedError reports an attempt to skip a plugin whose required
// fields are not all set.
type SkipRejectedError struct {
	Plugin  string
	Missing []string
}

func (e *SkipRejectedError) Error() string {
	return fmt.Sprintf("Can't skip %s. Missing required fields: %s", e.Plugin, strings.Join(e.Missing, ", "))
}

// IsSkipRejected reports whether err is a SkipRejectedError.
func IsSkipRejected(err error) bool {
	var e *SkipRejectedError
	return errors.As(err, &e)
}
