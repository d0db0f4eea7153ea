package repository

// Tx agrupa los repositorios atados a una misma transacción de BD.
// Lo construye el adaptador de persistencia (TxRunner) y lo consumen los casos de uso.
type Tx struct {
	Stock     StockRepository
	Movements StockMovementRepository
	Products  ProductRepository
	Sales     SaleRepository
	Recycling RecyclingRepository
}
