package topics

const (
	// Previsões (um lote por data)
	PredictionBatches = "hr_prediction_batches"

	// DLQ para lotes que não puderam ser processados
	PredictionBatchesDLQ = "hr_prediction_batches_dlq"
)
