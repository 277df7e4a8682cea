package domain

// ProbeMiss - ID категории, который не ответил статусом 200
type ProbeMiss struct {
	CategoryID int
	// StatusCode равен 0, если ответа не было вовсе (таймаут, обрыв соединения)
	StatusCode int
	Reason     string
}

// IsTransportFailure сообщает, что запрос не дошел до HTTP-ответа
func (m ProbeMiss) IsTransportFailure() bool {
	return m.StatusCode == 0
}

// ProbeResult - результат перебора диапазона ID для одного склада
type ProbeResult struct {
	Warehouse string
	Valid     []int
	Misses    []ProbeMiss
}

// TransportFailures считает промахи без HTTP-ответа
func (r ProbeResult) TransportFailures() int {
	n := 0
	for _, m := range r.Misses {
		if m.IsTransportFailure() {
			n++
		}
	}
	return n
}
