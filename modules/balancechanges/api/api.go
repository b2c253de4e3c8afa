package api

import (
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/api/httphandler"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/usecase"
)

func NewHTTPHandler(usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(usecase)
}
