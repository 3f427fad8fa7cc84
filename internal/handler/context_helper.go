package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/middleware"
	"github.com/noah-isme/rcc-portal/internal/models"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
	"github.com/noah-isme/rcc-portal/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext writes a 401 and reports false when the request carries no session.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Actor{}, false
	}
	return claims.Actor(), true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// confirmed reads the confirm query flag guarding destructive requests.
func confirmed(c *gin.Context) bool {
	ok, err := strconv.ParseBool(c.Query("confirm"))
	return err == nil && ok
}

// pageParams reads page and limit. A limit of 0 returns the whole list.
func pageParams(c *gin.Context) (page, limit int) {
	page, limit = 1, 0
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) ([]T, *response.Pagination) {
	total := len(items)
	if limit <= 0 {
		return items, &response.Pagination{Page: 1, PageSize: total, TotalCount: total}
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], &response.Pagination{Page: page, PageSize: limit, TotalCount: total}
}
