package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/commonshq/reserva/internal/booking"
	"github.com/commonshq/reserva/internal/db"
	"github.com/commonshq/reserva/internal/guard"
	"github.com/commonshq/reserva/internal/http/api"
	"github.com/commonshq/reserva/internal/http/api/admin/packets"
	"github.com/commonshq/reserva/internal/model"
	"github.com/commonshq/reserva/internal/notify"
	"github.com/commonshq/reserva/internal/redis"
)

type ActivityController struct {
	store  db.Store
	events *notify.Publisher
}

func NewActivityController(store db.Store, events *notify.Publisher) *ActivityController {
	return &ActivityController{store: store, events: events}
}

func ActivityModule(store db.Store, events *notify.Publisher) api.Module {
	ctl := NewActivityController(store, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/activities", ctl.listActivities)
		c.POST("/activities", ctl.createActivity)
		c.PATCH("/activities/:id", ctl.updateActivity)
		c.DELETE("/activities/:id", ctl.deleteActivity)
	})
}

func (a *ActivityController) listActivities(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := a.store.ListActivities(api.Host(ctx))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list activities"}
	}
	response := make([]packets.ActivityResponse, 0, len(list))
	for i := range list {
		response = append(response, packets.NewActivityResponse(&list[i], nil))
	}
	return response, nil
}

func (a *ActivityController) createActivity(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateActivityRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	occurrences := toOccurrences(request.DatesAndTimes)
	diags, apiErr := a.runGuard(ctx, user, request.ResourceID, "", occurrences, request.IgnoreConflicts)
	if apiErr != nil {
		return nil, apiErr
	}

	created, err := a.store.CreateActivity(api.Host(ctx), request.Title, request.ResourceID, user.ID, occurrences)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create activity"}
	}

	a.invalidate(ctx, "activity_created", created.ID, created.ResourceID)
	return packets.NewActivityResponse(created, diags), nil
}

func (a *ActivityController) updateActivity(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	existing, err := a.store.GetActivity(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "activity not found"}
	}
	if apiErr := a.mayEdit(existing, user); apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateActivityRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	occurrences := toOccurrences(request.DatesAndTimes)
	diags, apiErr := a.runGuard(ctx, user, request.ResourceID, id, occurrences, request.IgnoreConflicts)
	if apiErr != nil {
		return nil, apiErr
	}

	updated, err := a.store.UpdateActivity(id, request.Title, request.ResourceID, occurrences)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update activity"}
	}

	a.invalidate(ctx, "activity_updated", id, updated.ResourceID)
	return packets.NewActivityResponse(updated, diags), nil
}

func (a *ActivityController) deleteActivity(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	existing, err := a.store.GetActivity(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "activity not found"}
	}
	if apiErr := a.mayEdit(existing, user); apiErr != nil {
		return nil, apiErr
	}

	if err := a.store.DeleteActivity(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete activity"}
	}

	a.invalidate(ctx, "activity_deleted", id, existing.ResourceID)
	return gin.H{"deleted": id}, nil
}

// runGuard is the server-side half of collision prevention: the same engine
// the form feedback uses, re-run against the current snapshot right before
// the write is committed.
func (a *ActivityController) runGuard(ctx *gin.Context, user *model.User, resourceID, editingID string, occurrences []model.Occurrence, ignoreConflicts bool) ([]booking.Diagnostic, *api.APIError) {
	results, diags, err := guard.Check(a.store, api.Host(ctx), resourceID, editingID, occurrences)
	if err != nil {
		var iie *booking.InvalidIntervalError
		if errors.As(err, &iie) {
			return nil, &api.APIError{Code: http.StatusUnprocessableEntity, Message: iie.Error()}
		}
		if errors.Is(err, booking.ErrInvalidInput) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "conflict check failed"}
	}

	if guard.HasConflict(results) {
		if ignoreConflicts && user.IsAdmin {
			log.Warn().Str("user_email", user.Email).Str("activity_id", editingID).
				Msg("admin override: booking committed despite conflicts")
			return diags, nil
		}
		return nil, &api.APIError{
			Code:    http.StatusConflict,
			Message: "booking conflicts with an existing booking",
			Details: packets.ConflictDetail{Results: results, Diagnostics: diags},
		}
	}
	return diags, nil
}

func (a *ActivityController) mayEdit(act *model.Activity, user *model.User) *api.APIError {
	if user.IsAdmin {
		return nil
	}
	if act.AuthorID == nil || *act.AuthorID != user.ID {
		return &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return nil
}

func (a *ActivityController) invalidate(ctx *gin.Context, kind, activityID, resourceID string) {
	host := api.Host(ctx)
	redis.Del(ctx, "calendar:"+host)
	a.events.CalendarUpdated(host, kind, activityID, resourceID)
}

func toOccurrences(payload []packets.OccurrencePayload) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(payload))
	for _, p := range payload {
		out = append(out, model.Occurrence{
			StartDate:  p.StartDate,
			EndDate:    p.EndDate,
			StartTime:  p.StartTime,
			EndTime:    p.EndTime,
			ResourceID: p.ResourceID,
			Capacity:   p.Capacity,
		})
	}
	return out
}
