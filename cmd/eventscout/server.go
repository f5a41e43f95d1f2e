package main

import (
	"net/http"

	"eventscout/internal/app/assistant"
	"eventscout/internal/app/events"
	"eventscout/internal/app/users"
	"eventscout/internal/app/venues"
	"eventscout/internal/http/middleware"
	"eventscout/internal/httpapi"
	"eventscout/internal/intent"
	"eventscout/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	eventSvc := events.New(dataStore)
	venueSvc := venues.New(dataStore)
	userSvc := users.New(dataStore)

	intentClient := intent.NewClient(cfg.IntentServiceURL, cfg.IntentTimeout)
	assistantSvc := assistant.New(intentClient, eventSvc)

	routes := httpapi.New(eventSvc, venueSvc, assistantSvc, userSvc).Routes()

	handler := middleware.CORS(cfg.AllowedOrigins)(routes)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)

	return handler
}
