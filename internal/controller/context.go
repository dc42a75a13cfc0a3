// Package controller holds the pieces shared by the candidate and admin
// HTTP controllers.
package controller

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lamngoc/ascent/internal/model"
)

// Headers carrying the resolved tenant scope. Authentication itself is an
// upstream concern; by the time a request reaches this service the gateway
// has already verified the caller and set these.
const (
	HeaderChapterID = "X-Chapter-ID"
	HeaderRole      = "X-Role"
)

// ChapterFromHeaders builds the explicit ChapterContext passed into
// services. Requests without a chapter scope are rejected.
func ChapterFromHeaders(c *gin.Context) (model.ChapterContext, error) {
	raw := c.GetHeader(HeaderChapterID)
	if raw == "" {
		return model.ChapterContext{}, fmt.Errorf("missing %s header", HeaderChapterID)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return model.ChapterContext{}, fmt.Errorf("invalid %s header: %w", HeaderChapterID, err)
	}
	role := c.GetHeader(HeaderRole)
	if role == "" {
		role = "candidate"
	}
	return model.ChapterContext{ChapterID: uint(id), Role: role}, nil
}
