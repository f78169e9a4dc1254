package handler

import "github.com/gofiber/fiber/v3"

// Every response carries the success flag so clients can branch
// without inspecting status codes.

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func okCount(c fiber.Ctx, data any, count int) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "count": count})
}

func okMessage(c fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func failure(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

func badRequest(c fiber.Ctx, msg string) error {
	return failure(c, fiber.StatusBadRequest, msg)
}

func unauthorized(c fiber.Ctx) error {
	return failure(c, fiber.StatusUnauthorized, "unauthorized")
}

func forbidden(c fiber.Ctx, msg string) error {
	return failure(c, fiber.StatusForbidden, msg)
}

func notFound(c fiber.Ctx, msg string) error {
	return failure(c, fiber.StatusNotFound, msg)
}

func conflict(c fiber.Ctx, msg string) error {
	return failure(c, fiber.StatusConflict, msg)
}

func internalError(c fiber.Ctx) error {
	return failure(c, fiber.StatusInternalServerError, "internal server error")
}
