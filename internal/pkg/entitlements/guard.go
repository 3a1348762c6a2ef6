package entitlements

import (
	"fmt"
	"time"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// Decision is the outcome of a resource-limit check.
type Decision struct {
	Allowed bool           `json:"allowed"`
	Ceiling int64          `json:"ceiling"`
	Tier    plans.Tier     `json:"tier"`
	Message string         `json:"message,omitempty"`
	Res     plans.Resource `json:"resource"`
}

// CheckLimit decides whether one more resource of the given type may be
// created when prospectiveCount items already exist. The ceiling comes from
// the effective tier at the given instant; it is an exclusive bound, so a
// ceiling of 50 denies the 51st item (prospectiveCount 50).
//
// The check is advisory with respect to concurrency: it inspects a count
// supplied by the caller without locking, so two simultaneous creations can
// both pass. Callers must not persist the resource on denial.
func CheckLimit(acc *models.Account, res plans.Resource, prospectiveCount int64, now time.Time) Decision {
	tier := Resolve(acc, now)
	ceiling := plans.Ceiling(tier, res)

	d := Decision{
		Ceiling: ceiling,
		Tier:    tier,
		Res:     res,
	}

	if ceiling == plans.Unlimited {
		d.Allowed = true
		return d
	}

	if prospectiveCount < ceiling {
		d.Allowed = true
		return d
	}

	d.Message = fmt.Sprintf("the %s plan allows at most %d %s", tier, ceiling, res)
	return d
}
