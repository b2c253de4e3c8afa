package httphandler

import (
	"github.com/gaze-network/near-balance-indexer/common"
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

type HttpResponse[T any] common.HttpResponse[T]
