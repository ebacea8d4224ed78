package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
)

// statusByCode maps business error codes to HTTP statuses. Unknown codes
// render as 400.
var statusByCode = map[string]int{
	viewing.CodeInvalidRequest:     http.StatusBadRequest,
	"invalid_range":                http.StatusBadRequest,
	viewing.CodeNotFound:           http.StatusNotFound,
	"forbidden":                    http.StatusForbidden,
	viewing.CodeSlotUnavailable:    http.StatusUnprocessableEntity,
	viewing.CodeSlotBlocked:        http.StatusUnprocessableEntity,
	viewing.CodeSlotFull:           http.StatusConflict,
	viewing.CodeBrokerDoubleBooked: http.StatusConflict,
	viewing.CodeInvalidState:       http.StatusConflict,
}

func StatusForCode(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusBadRequest
}

// writeError renders business errors with their status and everything else
// as a 500 without leaking internals.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		httperr.WriteBusiness(c, StatusForCode(be.Code), be)
		return
	}

	_ = c.Error(err)

	var se *httperr.StorageError
	if errors.As(err, &se) {
		log.Error("storage failure", zap.String("op", se.Op), zap.Error(se.Err))
		httperr.Internal(c, viewing.CodeStorage, "storage error, please retry")
		return
	}

	log.Error("unexpected failure", zap.Error(err))
	httperr.Internal(c, "internal_error", "internal error")
}

func bindError(c *gin.Context, err error) {
	httperr.BadRequest(c, viewing.CodeInvalidRequest, err.Error())
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, viewing.CodeInvalidRequest, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}
