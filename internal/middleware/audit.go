package middleware

import (
	"encoding/json"
	"net/http"

	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var methodActions = map[string]string{
	http.MethodPost:   models.AuditCreate,
	http.MethodPut:    models.AuditUpdate,
	http.MethodPatch:  models.AuditUpdate,
	http.MethodDelete: models.AuditDelete,
}

// AuditTrail writes one audit row per successful mutating request on the
// given entity. The entity ID is taken from the route's :id param, so reads
// and list endpoints produce nothing.
func AuditTrail(auditRepo repositories.AuditLogRepository, entity string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				return err
			}

			action, ok := methodActions[c.Request().Method]
			if !ok {
				return nil
			}
			if c.Response().Status >= http.StatusBadRequest {
				return nil
			}

			ctx := c.Request().Context()
			actorID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return nil
			}

			entityID := c.Param("id")
			if entityID == "" {
				entityID = c.Path()
			}

			fields, marshalErr := json.Marshal(map[string]string{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			})
			var changed *string
			if marshalErr == nil {
				s := string(fields)
				changed = &s
			}

			entry := &models.AuditLog{
				ID:            uuid.New(),
				Entity:        entity,
				EntityID:      entityID,
				Action:        action,
				ChangedFields: changed,
				ActorID:       actorID,
			}
			if logErr := auditRepo.Create(ctx, entry); logErr != nil {
				c.Logger().Errorf("audit log write failed: %v", logErr)
			}
			return nil
		}
	}
}
