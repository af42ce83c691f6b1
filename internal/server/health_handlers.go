package server

import (
	"blogql/internal/graph"

	"github.com/gofiber/fiber/v2"
)

// LivenessCheck answers as soon as the listener is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.SendString("viewing server route")
}

// ReadinessCheck reports whether the snapshot has been loaded.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	state := s.engine.State()
	if state != graph.Ready {
		return c.Status(fiber.StatusServiceUnavailable).SendString(state.String())
	}
	return c.SendString("ready")
}
