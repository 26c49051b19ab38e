package adminserver

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	employeeapp "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/application"
	employeeports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
	orderapp "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application"
	orderdomain "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
	apierrors "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/shared/errors"
)

var problems = apierrors.NewChainedResponder("",
	apierrors.SentinelMapper(
		apierrors.Sentinel{Err: orderports.ErrNotFound, Problem: apierrors.ErrNotFound},
		apierrors.Sentinel{Err: orderdomain.ErrItemNotFound, Problem: apierrors.ErrNotFound},
		apierrors.Sentinel{Err: orderapp.ErrInvalidActor, Problem: apierrors.ErrForbidden},
		apierrors.Sentinel{Err: orderapp.ErrInvalidInput, Problem: apierrors.ErrValidation},
		apierrors.Sentinel{Err: orderports.ErrVersionConflict, Problem: apierrors.ErrVersionConflict},
		apierrors.Sentinel{Err: orderdomain.ErrAlreadyCanceled, Problem: apierrors.ErrConflict},
		apierrors.Sentinel{Err: orderports.ErrIdempotencyConflict, Problem: apierrors.ErrConflict},
		apierrors.Sentinel{Err: orderports.ErrAlreadyExists, Problem: apierrors.ErrConflict},
	),
	apierrors.SentinelMapper(
		apierrors.Sentinel{Err: employeeports.ErrNotFound, Problem: apierrors.ErrNotFound},
		apierrors.Sentinel{Err: employeeports.ErrAlreadyExists, Problem: apierrors.ErrConflict},
		apierrors.Sentinel{Err: employeeapp.ErrInvalidInput, Problem: apierrors.ErrValidation},
	),
)

// respondServiceError writes an application error as problem+json.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

// respondBadRequest reports a malformed request.
func respondBadRequest(c *gin.Context, err error) {
	problems.BadRequest(c, err.Error())
}

// respondInvalidQuery reports a query parameter that could not be used.
func respondInvalidQuery(c *gin.Context, name, reason string) {
	problems.ValidationFailed(c, map[string]string{name: reason})
}

// Recovery turns a handler panic into a 500 problem response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		problems.InternalError(c, "unexpected server error")
		c.Abort()
	})
}

// NoRoute answers unknown paths with a not-found problem.
func NoRoute(c *gin.Context) {
	problems.NotFound(c, "route", c.Request.URL.Path)
}

// bindOptionalJSON decodes a JSON body when one was sent. An empty body leaves obj untouched.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return false
	}
	return true
}
