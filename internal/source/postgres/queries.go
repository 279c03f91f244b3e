package postgres

// SQL queries for the read-only registrations source.

const (
	// queryLoadRegistrations reads the whole registrations table.
	// Duplicate (year, quarter, category, manufacturer) rows are returned as-is;
	// the engine sums them.
	queryLoadRegistrations = `
		SELECT year, quarter, category, manufacturer, registrations
		FROM vehicle_registrations
		ORDER BY id ASC
	`

	// queryTableExists checks that migrations have created the registrations table.
	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'vehicle_registrations'
		)
	`
)
