package routes

import (
	"context"
	"log"

	"brainhr-server/services"
	"brainhr-server/storage"
)

// Events is set from main when a broker is configured. Route handlers
// publish through it best-effort; nil means no bus.
var Events services.EventPublisher

func publishEvent(key string, payload any) {
	if Events == nil {
		return
	}
	if err := Events.Publish(context.Background(), key, payload); err != nil {
		log.Printf("event publish failed (%s): %v", key, err)
	}
}

func messageService() *services.MessageService {
	return services.NewMessageService(storage.DB, services.NewIdentityDirectory(storage.DB))
}

func identityDirectory() *services.IdentityDirectory {
	return services.NewIdentityDirectory(storage.DB)
}
