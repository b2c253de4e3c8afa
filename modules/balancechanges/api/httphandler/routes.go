package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/balance-changes")

	r.Get("/block", h.GetCurrentBlock)
	r.Get("/accounts/:accountId", h.GetBalanceChangesByAccount)
	return nil
}
