package session

import (
	"context"
	"fmt"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

// StartCleanup schedules ScanAndClean on the given cron spec (e.g. "@every 8h").
// The returned cron must be stopped by the caller.
func StartCleanup(ctx context.Context, manager Manager, spec string) (*cron.Cron, error) {
	c := cron.New()
	if err := c.AddFunc(spec, func() {
		cleaned, err := manager.ScanAndClean(ctx)
		if err != nil {
			log.Errorf("sessions cleanup: %s", err)
			return
		}
		if cleaned > 0 {
			log.Infof("sessions cleanup: removed %d expired sessions", cleaned)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule sessions cleanup [%s]: %w", spec, err)
	}

	c.Start()
	return c, nil
}
