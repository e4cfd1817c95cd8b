// Package http provides HTTP routing and handlers for the checkpoint
// administration API.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ardiyansa/checkpointd/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the HTTP handler serving the administration API.
//
// Routes:
//
//	/api/checkpoints...   → checkpoint CRUD and device actions
//	/api/employees...     → employee CRUD and biometric registration
//	POST /api/isup/event  → device event callback sink
//	/storage/*            → public blob storage (face images devices fetch)
//
// The event sink and blob storage are reachable by devices, so no
// authentication middleware is mounted here; access control is left to the
// surrounding infrastructure.
func NewRouter(
	checkpointHandler *CheckpointHandler,
	employeeHandler *EmployeeHandler,
	eventHandler *EventHandler,
	blobDir string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/checkpoints", func(r chi.Router) {
			r.Get("/", checkpointHandler.List)
			r.Post("/", checkpointHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", checkpointHandler.Get)
				r.Put("/", checkpointHandler.Update)
				r.Delete("/", checkpointHandler.Delete)

				r.Get("/status", checkpointHandler.Status)
				r.Post("/reboot", checkpointHandler.Reboot)
				r.Post("/sync", checkpointHandler.SyncEmployees)

				r.Route("/employees", func(r chi.Router) {
					r.Delete("/", checkpointHandler.DeleteAllUsers)
					r.Post("/{employeeID}/sync", checkpointHandler.SyncEmployee)
					r.Post("/{employeeID}/sync-face", checkpointHandler.SyncFace)
					r.Post("/{employeeID}/modify", checkpointHandler.ModifyUser)
					r.Delete("/{employeeID}", checkpointHandler.DeleteUser)
				})

				r.Route("/device", func(r chi.Router) {
					r.Get("/info", checkpointHandler.DeviceInfo)
					r.Get("/access-config", checkpointHandler.GetAccessConfig)
					r.Get("/ntp", checkpointHandler.GetNTPServer)
					r.Put("/name", checkpointHandler.UpdateDeviceName)
					r.Put("/timezone", checkpointHandler.UpdateTimeZone)
					r.Put("/access-config", checkpointHandler.UpdateAccessConfig)
					r.Put("/ntp", checkpointHandler.UpdateNTPServer)
					r.Post("/event-host", checkpointHandler.CreateEventHost)
					r.Put("/event-host", checkpointHandler.UpdateEventHost)
				})

				r.Route("/capture", func(r chi.Router) {
					r.Post("/fingerprint", checkpointHandler.CaptureFingerprint)
					r.Post("/face", checkpointHandler.CaptureFace)
				})
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.List)
			r.Post("/", employeeHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", employeeHandler.Get)
				r.Put("/", employeeHandler.Update)
				r.Delete("/", employeeHandler.Delete)

				r.Put("/face", employeeHandler.SaveFaceBiometric)
				r.Delete("/face", employeeHandler.DeleteFaceBiometric)
			})
		})

		r.Post("/isup/event", eventHandler.Receive)
	})

	// Devices fetch staged face images from here by URL.
	r.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(blobDir))))

	return r
}
