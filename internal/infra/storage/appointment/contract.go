package appointment

import "github.com/Kilchi555/driving-team-app-sub004/pkg/dbmetrics"

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
