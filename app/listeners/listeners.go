// Package listeners registers the application's event handlers.
package listeners

import (
	"github.com/aurelben/boutiq/app/jobs"
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/cache"
	"github.com/aurelben/boutiq/pkg/event"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/queue"
)

// Register wires all listeners. Call once at boot, before the router
// starts serving.
func Register() {
	// Any catalogue mutation invalidates the cached shop listing.
	invalidate := func(payload interface{}) {
		if err := cache.Forget(services.ShopListingCacheKey); err != nil {
			logger.Warn("listeners: cache invalidation failed", "error", err)
		}
	}
	event.Listen(services.EventProductCreated, invalidate)
	event.Listen(services.EventProductUpdated, invalidate)
	event.Listen(services.EventProductDeleted, invalidate)

	// New accounts get a welcome email, off the request path.
	event.Listen("user.registered", func(payload interface{}) {
		user, ok := payload.(models.User)
		if !ok {
			return
		}
		job := &jobs.WelcomeEmailJob{Username: user.Username, Email: user.Email}
		if err := queue.Dispatch(job); err != nil {
			logger.Warn("listeners: welcome email dispatch failed", "error", err)
		}
	})
}
