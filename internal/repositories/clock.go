package repositories

import "time"

// nowFunc подменяется в тестах
var nowFunc = time.Now
