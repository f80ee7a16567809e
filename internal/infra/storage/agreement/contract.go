package agreement

import "github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics; поддерживает *dbmetrics.DB и транзакцию из контекста
type DBExecutor = dbmetrics.DBExecutor
