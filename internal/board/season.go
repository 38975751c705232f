package board

import "time"

// EarlySeason indica datas até o corte (MM-DD, inclusivo) em que as estatísticas
// de entrada do modelo ainda são voláteis
func EarlySeason(date time.Time, until string) bool {
	cut, err := time.Parse("01-02", until)
	if err != nil {
		return false
	}
	if date.Month() != cut.Month() {
		return date.Month() < cut.Month()
	}
	return date.Day() <= cut.Day()
}
