package constants

const (
	// ExchangeSnapshots - exchange, в который публикуются события о готовых снапшотах
	ExchangeSnapshots = "snapshots_exchange"

	RoutingKeySnapshotWritten = "mercadona.snapshot.written"
)
