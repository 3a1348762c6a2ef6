package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
)

// processSitePurgeJob tears down an expired site via the purge coordinator
func (q *Queue) processSitePurgeJob(ctx context.Context, job *Job) error {
	if q.purger == nil {
		return fmt.Errorf("no purge runner configured")
	}

	payload, err := SitePurgeJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid site purge payload: %w", err)
	}

	log.Infof("[JobQueue] Purging site for account %d (%s)", payload.AccountID, payload.PublicID)
	return q.purger.Purge(ctx, payload.AccountID, payload.PublicID)
}

// processOperatorEmailJob delivers a notification email to the operator
func (q *Queue) processOperatorEmailJob(job *Job) error {
	if q.mailer == nil {
		log.Debug("[JobQueue] No mailer configured, dropping operator email job")
		return nil
	}

	payload, err := OperatorEmailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid operator email payload: %w", err)
	}

	return q.mailer.SendOperatorMail(payload.Subject, payload.Body)
}
