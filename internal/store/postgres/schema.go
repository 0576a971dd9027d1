package postgres

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_owners_phone ON owners(phone)`,
	`CREATE INDEX IF NOT EXISTS idx_owners_name ON owners(name)`,

	`CREATE TABLE IF NOT EXISTS pets (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES owners(id),
		name TEXT NOT NULL,
		species TEXT NOT NULL DEFAULT 'Unknown',
		breed TEXT,
		details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS cases (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES owners(id),
		pet_id BIGINT REFERENCES pets(id),
		service_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		initial_request TEXT,
		notes TEXT,
		pet_details TEXT,
		source_system TEXT NOT NULL,
		original_data JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_owner ON cases(owner_id)`,

	`CREATE TABLE IF NOT EXISTS import_batches (
		id UUID PRIMARY KEY,
		total_records INTEGER NOT NULL,
		imported_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL,
		errors TEXT[] NOT NULL DEFAULT '{}',
		ip_address TEXT,
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_batches_created ON import_batches(created_at)`,
}
