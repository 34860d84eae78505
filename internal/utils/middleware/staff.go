package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/collabhub/server/internal/utils/errors"
)

// StaffList is the configured set of platform staff accounts.
type StaffList struct {
	ids map[uuid.UUID]struct{}
}

// NewStaffList parses staff user IDs, skipping blank and malformed entries.
func NewStaffList(userIDs []string) *StaffList {
	return &StaffList{ids: parseUUIDSet(userIDs)}
}

// Contains reports whether the user is listed as staff.
func (s *StaffList) Contains(userID uuid.UUID) bool {
	if s == nil || userID == uuid.Nil {
		return false
	}
	_, ok := s.ids[userID]
	return ok
}

// RequireStaff aborts unless the authenticated caller is staff.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			abort(c, apperrors.Unauthorized("user not authenticated"))
			return
		}
		if !IsStaff(c) {
			abort(c, apperrors.Forbidden("staff only"))
			return
		}
		c.Next()
	}
}

func parseUUIDSet(ids []string) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, s := range ids {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}
