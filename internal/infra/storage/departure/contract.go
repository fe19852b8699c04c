package departure

import "github.com/m04kA/TrekBookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
