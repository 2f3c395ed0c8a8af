package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/commonshq/reserva/internal/booking"
	"github.com/commonshq/reserva/internal/db"
	"github.com/commonshq/reserva/internal/guard"
	"github.com/commonshq/reserva/internal/http/api"
	"github.com/commonshq/reserva/internal/http/api/calendar/packets"
	"github.com/commonshq/reserva/internal/model"
	"github.com/commonshq/reserva/internal/redis"
)

const calendarCacheTTL = 5 * time.Minute

type CalendarController struct {
	store db.Store
}

func NewCalendarController(store db.Store) *CalendarController {
	return &CalendarController{store: store}
}

// CalendarModule mounts the public read surface: the annotated calendar, the
// legend and the live conflict check used by the booking form.
func CalendarModule(store db.Store) api.Module {
	ctl := NewCalendarController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/calendar", ctl.getCalendar)
		c.PUBLIC_GET("/calendar/resources", ctl.getLegend)
		c.PUBLIC_POST("/calendar/conflicts", ctl.checkConflicts)
	})
}

// GET /api/calendar
func (cc *CalendarController) getCalendar(ctx *gin.Context) (any, *api.APIError) {
	host := api.Host(ctx)
	cacheKey := "calendar:" + host

	if cached, ok := redis.Get(ctx, cacheKey); ok {
		return json.RawMessage(cached), nil
	}

	resources, activities, apiErr := cc.loadSnapshot(ctx, host)
	if apiErr != nil {
		return nil, apiErr
	}

	annotated, diags, err := booking.AnnotateCalendar(activities, resources)
	if err != nil {
		log.Error().Err(err).Str("host", host).Msg("annotating calendar failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not build calendar"}
	}

	response := packets.CalendarResponse{Bookings: annotated, Diagnostics: diags}
	if payload, err := json.Marshal(response); err == nil {
		redis.Set(ctx, cacheKey, string(payload), calendarCacheTTL)
	}
	return response, nil
}

// GET /api/calendar/resources
func (cc *CalendarController) getLegend(ctx *gin.Context) (any, *api.APIError) {
	resources, err := cc.store.ListResources(api.Host(ctx))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list resources"}
	}

	colors := booking.ResourceColors(resources)
	legend := booking.SortedForLegend(booking.Bookable(resources))
	response := make([]packets.LegendEntry, 0, len(legend))
	for _, r := range legend {
		response = append(response, packets.LegendEntry{
			ID:        r.ID,
			Label:     r.Label,
			IsCombo:   r.IsCombo,
			MemberIDs: r.MemberIDs,
			Color:     colors[r.ID],
		})
	}
	return response, nil
}

// POST /api/calendar/conflicts
func (cc *CalendarController) checkConflicts(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ConflictCheckRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	occurrences := make([]model.Occurrence, 0, len(request.Occurrences))
	for _, p := range request.Occurrences {
		occurrences = append(occurrences, model.Occurrence{
			StartDate:  p.StartDate,
			EndDate:    p.EndDate,
			StartTime:  p.StartTime,
			EndTime:    p.EndTime,
			ResourceID: p.ResourceID,
		})
	}

	results, diags, err := guard.Check(cc.store, api.Host(ctx), request.ResourceID, request.EditingActivityID, occurrences)
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

	return packets.ConflictCheckResponse{
		Results:     results,
		HasConflict: guard.HasConflict(results),
		Diagnostics: diags,
	}, nil
}

func (cc *CalendarController) loadSnapshot(ctx *gin.Context, host string) ([]model.Resource, []model.Activity, *api.APIError) {
	resources, err := cc.store.ListResources(host)
	if err != nil {
		return nil, nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list resources"}
	}
	activities, err := cc.store.ListActivities(host)
	if err != nil {
		return nil, nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list activities"}
	}
	return resources, activities, nil
}
