package inventory

import (
	"github.com/erazemk/liquorlocker/internal/apperr"
	"github.com/erazemk/liquorlocker/internal/model"
)

// validateDraft checks a normalized draft before any network call.
func validateDraft(draft any) error {
	if err := model.Validate(draft); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}
