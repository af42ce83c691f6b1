package server

import (
	"log/slog"
	"strings"

	"blogql/internal/middleware"
	"blogql/internal/models"

	"github.com/gofiber/fiber/v2"
)

// graphQLRequest is the POST body accepted on the GraphQL path.
type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQL executes one operation against the schema.
// Field errors stay in the response body with status 200; only an unusable
// request body yields 400.
func (s *Server) GraphQL(c *fiber.Ctx) error {
	var req graphQLRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Query) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Must provide query string"))
	}

	ctx := c.UserContext()
	resp := s.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	for _, gqlErr := range resp.Errors {
		code := ""
		if gqlErr.Extensions != nil {
			code, _ = gqlErr.Extensions["code"].(string)
		}
		level := slog.LevelWarn
		if code == models.CodeSchemaConformance || code == models.CodeInternal {
			level = slog.LevelError
		}
		middleware.Logger.Log(ctx, level, "graphql error",
			slog.String("operation", req.OperationName),
			slog.String("code", code),
			slog.String("error", gqlErr.Message),
		)
	}

	return c.JSON(resp)
}
