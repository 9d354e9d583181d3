package controller

import (
	"errors"
	"net/http"
	"study_planner_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

// currentUserID writes a 401 and returns false when the request carries no claims.
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

func pathID(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return id, true
}

func parseDate(ctx *gin.Context, value string) (time.Time, bool) {
	t, err := util.ParseDate(value, time.Local)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return time.Time{}, false
	}
	return t, true
}

// respondError maps domain errors to status codes; anything unknown is logged as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSubjectNotFound),
		errors.Is(err, util.ErrTaskNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidDate),
		errors.Is(err, util.ErrInvalidStatus),
		errors.Is(err, util.ErrInvalidDifficulty):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrNoSubjects):
		util.BadRequest(ctx, "Please add subjects first!")
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
