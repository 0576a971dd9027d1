package sqlite

// migrations run in order on every Open. Each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_owners_phone ON owners(phone)`,
	`CREATE INDEX IF NOT EXISTS idx_owners_name ON owners(name)`,

	`CREATE TABLE IF NOT EXISTS pets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL REFERENCES owners(id),
		name TEXT NOT NULL,
		species TEXT NOT NULL DEFAULT 'Unknown',
		breed TEXT,
		details TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL REFERENCES owners(id),
		pet_id INTEGER REFERENCES pets(id),
		service_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		initial_request TEXT,
		notes TEXT,
		pet_details TEXT,
		source_system TEXT NOT NULL,
		original_data TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_owner ON cases(owner_id)`,

	`CREATE TABLE IF NOT EXISTS import_batches (
		id TEXT PRIMARY KEY,
		total_records INTEGER NOT NULL,
		imported_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL,
		errors TEXT NOT NULL DEFAULT '[]',
		ip_address TEXT,
		user_agent TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_batches_created ON import_batches(created_at)`,
}
