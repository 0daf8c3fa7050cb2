package controllers

import (
	"errors"
	"io"
	"strconv"

	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/validation"
	"github.com/gin-gonic/gin"
)

// bindData decodes a {"data": {...}} body. An empty body, or one without a
// data member, yields a nil payload for the validators to reject.
func bindData[T any](c *gin.Context) (*T, error) {
	var env validation.Envelope[T]
	if err := c.ShouldBindJSON(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, utils.BadRequest("Request body must be valid JSON")
	}
	return env.Data, nil
}

// pathID parses a numeric path parameter. Anything that cannot be an id is
// reported as a missing entity.
func pathID(c *gin.Context, param, entity string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, utils.NotFound("%s %s cannot be found.", entity, raw)
	}
	return uint(id), nil
}

// queryDate returns the date query parameter, or today when it is absent.
func queryDate(c *gin.Context, rules validation.Rules) (string, error) {
	date := c.Query("date")
	if date == "" {
		return rules.Today(), nil
	}
	if _, err := utils.ParseDate(date, nil); err != nil {
		return "", utils.BadRequest("date must be a valid YYYY-MM-DD date")
	}
	return date, nil
}
