package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parseAuthUserID extracts the authenticated principal id placed in Locals
// by the auth middleware.
func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	value, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, errors.New("missing user id")
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid user id")
	}
	return userID, nil
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
