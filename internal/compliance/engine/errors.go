package engine

import (
	"errors"

	dErrors "assetguard/pkg/domain-errors"
	"assetguard/pkg/platform/sentinel"
)

func wrapHistoryErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "no checks have been run yet")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read run history")
}
