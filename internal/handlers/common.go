// common.go
//
// OJT task tracker service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of ojt-tracker.
// ojt-tracker is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// ojt-tracker is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with ojt-tracker.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ojt-tracker/internal/middleware"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/localnerve/ojt-tracker/internal/utils"
)

// errorStatus maps a service error to its HTTP status and error type
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, "validation"
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "auth.unauthenticated"
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "auth.forbidden"
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict, "conflict"
	}
	return fiber.StatusInternalServerError, ""
}

// serviceError renders err in the error envelope. Unclassified errors are
// 500s that carry the driver message and op as their type.
func serviceError(c *fiber.Ctx, err error, op string) error {
	status, errType := errorStatus(err)
	if errType == "" {
		errType = op
	}
	return utils.ErrorResponse(c, err.Error(), status, errType)
}

// sessionUser returns the user placed in the context by the auth middleware
func sessionUser(c *fiber.Ctx) services.SessionUser {
	u, _ := middleware.CurrentUserFrom(c)
	return u
}

// targetUser resolves the user a request acts on. An empty value means the
// session user; only admins may name someone else.
func targetUser(c *fiber.Ctx, raw string) (uint64, error) {
	me := sessionUser(c)
	id, err := types.ParseID(raw)
	if err != nil {
		return 0, &services.Error{Kind: services.ErrValidation, Message: "Invalid user ID"}
	}
	if id == 0 {
		return me.ID, nil
	}
	if err := checkAccess(me, id); err != nil {
		return 0, err
	}
	return id, nil
}

// checkAccess allows admins everything and users only their own records
func checkAccess(me services.SessionUser, ownerID uint64) error {
	if me.IsAdmin() || me.ID == ownerID {
		return nil
	}
	return &services.Error{Kind: services.ErrForbidden, Message: "Access denied"}
}

// queryID parses a required numeric id query parameter
func queryID(c *fiber.Ctx, key, missing string) (uint64, error) {
	id, err := types.ParseID(c.Query(key))
	if err != nil || id == 0 {
		return 0, &services.Error{Kind: services.ErrValidation, Message: missing}
	}
	return id, nil
}
