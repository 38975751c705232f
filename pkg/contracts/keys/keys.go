package keys

// Day é a chave Redis do conjunto de previsões de uma data (YYYY-MM-DD)
func Day(date string) string { return "predictions:day:" + date }
