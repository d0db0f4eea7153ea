package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-admin-api/pkg/logger"
)

// httpObserver recibe la latencia de cada petición (lo implementa metrics.Collector).
type httpObserver interface {
	ObserveHTTP(method, route, status string, seconds float64)
}

// RequestLogger registra cada petición con zerolog y, si hay observer, su latencia.
// La ruta se toma del patrón registrado (/api/sales/:id) para no disparar la cardinalidad.
func RequestLogger(log *logger.Logger, obs httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler fije el status antes de registrar
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("user_id", GetUserID(c)).
			Msg("http")

		if obs != nil {
			obs.ObserveHTTP(c.Method(), route, strconv.Itoa(status), elapsed.Seconds())
		}
		return nil
	}
}
