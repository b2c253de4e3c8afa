package usecase

import (
	"github.com/gaze-network/near-balance-indexer/modules/balancechanges/datagateway"
)

type Usecase struct {
	balanceChangesDg datagateway.BalanceChangesDataGateway
}

func New(balanceChangesDg datagateway.BalanceChangesDataGateway) *Usecase {
	return &Usecase{
		balanceChangesDg: balanceChangesDg,
	}
}
