package nearrpc

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
)

func classifyMessage(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "does not exist"), strings.Contains(lower, "unknown block"):
		return errors.WithStack(errs.NotFound)
	default:
		return errors.WithStack(errs.SomethingWentWrong)
	}
}
