package ports

//go:generate mockgen -source=store.go -destination=mocks/store-mocks.go -package=mocks Store,StoreTx
//go:generate mockgen -source=history.go -destination=mocks/history-mocks.go -package=mocks History
