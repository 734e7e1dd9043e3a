package slot

import "github.com/Kilchi555/driving-team-app-sub004/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
// Репозиторий одинаково работает поверх *sql.DB, *dbmetrics.DB и транзакции
type DBExecutor = dbmetrics.DBExecutor
