package endpoints

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commonshq/reserva/internal/db"
	"github.com/commonshq/reserva/internal/http/api"
	"github.com/commonshq/reserva/internal/http/api/admin/packets"
	"github.com/commonshq/reserva/internal/model"
	"github.com/commonshq/reserva/internal/notify"
	"github.com/commonshq/reserva/internal/redis"
)

type ResourceController struct {
	store  db.Store
	events *notify.Publisher
}

func NewResourceController(store db.Store, events *notify.Publisher) *ResourceController {
	return &ResourceController{store: store, events: events}
}

func ResourceModule(store db.Store, events *notify.Publisher) api.Module {
	ctl := NewResourceController(store, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/resources", ctl.listResources)
		c.POST("/resources", ctl.createResource)
		c.PATCH("/resources/:id", ctl.updateResource)
		c.DELETE("/resources/:id", ctl.deleteResource)
	})
}

func (r *ResourceController) listResources(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := r.store.ListResources(api.Host(ctx))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list resources"}
	}
	response := make([]packets.ResourceResponse, 0, len(list))
	for i := range list {
		response = append(response, packets.NewResourceResponse(&list[i]))
	}
	return response, nil
}

func (r *ResourceController) createResource(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if !user.IsAdmin {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	var request packets.CreateResourceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if apiErr := r.validateMembers(request.IsCombo, request.MemberIDs, ""); apiErr != nil {
		return nil, apiErr
	}

	bookable := true
	if request.IsBookable != nil {
		bookable = *request.IsBookable
	}

	created, err := r.store.CreateResource(api.Host(ctx), request.Label, request.Description,
		request.IsCombo, bookable, request.MemberIDs, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create resource"}
	}

	r.invalidate(ctx, created.ID)
	return packets.NewResourceResponse(created), nil
}

func (r *ResourceController) updateResource(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if !user.IsAdmin {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	id := ctx.Param("id")
	existing, err := r.store.GetResource(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "resource not found"}
	}

	var request packets.UpdateResourceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if apiErr := r.validateMembers(existing.IsCombo, request.MemberIDs, id); apiErr != nil {
		return nil, apiErr
	}

	bookable := existing.IsBookable
	if request.IsBookable != nil {
		bookable = *request.IsBookable
	}

	updated, err := r.store.UpdateResource(id, request.Label, request.Description, bookable, request.MemberIDs)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update resource"}
	}

	r.invalidate(ctx, id)
	return packets.NewResourceResponse(updated), nil
}

func (r *ResourceController) deleteResource(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if !user.IsAdmin {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	id := ctx.Param("id")
	if _, err := r.store.GetResource(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "resource not found"}
	}

	if err := r.store.DeleteResource(id); err != nil {
		if errors.Is(err, db.ErrResourceInUse) {
			return nil, &api.APIError{Code: http.StatusConflict, Message: "resource is still referenced by bookings or combos"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete resource"}
	}

	r.invalidate(ctx, id)
	return gin.H{"deleted": id}, nil
}

// validateMembers enforces at the admin surface what the engine only warns
// about in legacy data: combo members must exist, be distinct and not point
// back at the combo itself.
func (r *ResourceController) validateMembers(isCombo bool, memberIDs []string, selfID string) *api.APIError {
	if !isCombo {
		if len(memberIDs) > 0 {
			return &api.APIError{Code: http.StatusBadRequest, Message: "member_ids is only valid for combo resources"}
		}
		return nil
	}
	if len(memberIDs) == 0 {
		return &api.APIError{Code: http.StatusBadRequest, Message: "a combo resource needs at least one member"}
	}
	seen := make(map[string]bool, len(memberIDs))
	for _, m := range memberIDs {
		if m == selfID {
			return &api.APIError{Code: http.StatusBadRequest, Message: "a combo cannot contain itself"}
		}
		if seen[m] {
			return &api.APIError{Code: http.StatusBadRequest, Message: fmt.Sprintf("duplicate member %q", m)}
		}
		seen[m] = true
		if _, err := r.store.GetResource(m); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &api.APIError{Code: http.StatusBadRequest, Message: fmt.Sprintf("unknown member resource %q", m)}
			}
			return &api.APIError{Code: http.StatusInternalServerError, Message: "could not verify member resources"}
		}
	}
	return nil
}

func (r *ResourceController) invalidate(ctx *gin.Context, resourceID string) {
	host := api.Host(ctx)
	redis.Del(ctx, "calendar:"+host)
	r.events.CalendarUpdated(host, "resource_changed", "", resourceID)
}
