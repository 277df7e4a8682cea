package domain

// Region - автономное сообщество (CCAA) и обслуживающие его склады.
// Один склад может обслуживать несколько регионов.
type Region struct {
	Key        string
	Name       string
	Warehouses []string
}
