package presets

import _ "modernc.org/sqlite"

const driverName = "sqlite"
