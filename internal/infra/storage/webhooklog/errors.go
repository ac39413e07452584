package webhooklog

import "errors"

var (
	// ErrLogNotFound возвращается, когда запись журнала не найдена
	ErrLogNotFound = errors.New("webhooklog.repository: log entry not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("webhooklog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("webhooklog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("webhooklog.repository: failed to scan row")
)
