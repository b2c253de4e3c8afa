package common

type Module string

const (
	ModuleBalanceChanges Module = "balance_changes"
)

func (m Module) String() string {
	return string(m)
}
