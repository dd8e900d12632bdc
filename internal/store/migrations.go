package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// dialect pairs a driver name with its migration history.
type dialect struct {
	name       string
	migrations []migration
}

var sqliteDialect = dialect{name: "sqlite", migrations: sqliteMigrations}

var postgresDialect = dialect{name: "postgres", migrations: postgresMigrations}

// sqliteMigrations is the ordered list of SQLite schema migrations.
// Versions are sequential starting from 1.
var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS lists (
	id    TEXT PRIMARY KEY,
	title TEXT,
	color TEXT,
	image TEXT
);

CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	list_id         TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	title           TEXT,
	notes           TEXT NOT NULL DEFAULT '',
	is_completed    INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	has_flag        INTEGER NOT NULL DEFAULT 0 CHECK(has_flag IN (0, 1)),
	priority        TEXT NOT NULL DEFAULT 'whenever',
	completion_date DATETIME,
	due_date        DATETIME,
	due_time        DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tasks_list_id ON tasks(list_id);
CREATE INDEX IF NOT EXISTS idx_tasks_list_completed ON tasks(list_id, is_completed);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS reminders (
	task_id    TEXT PRIMARY KEY REFERENCES tasks(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	fire_at    DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reminders_fire_at ON reminders(fire_at);
`,
	},
}

// postgresMigrations mirrors sqliteMigrations in Postgres types.
var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS lists (
	id    TEXT PRIMARY KEY,
	title TEXT,
	color TEXT,
	image TEXT
);

CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	list_id         TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	title           TEXT,
	notes           TEXT NOT NULL DEFAULT '',
	is_completed    BOOLEAN NOT NULL DEFAULT FALSE,
	has_flag        BOOLEAN NOT NULL DEFAULT FALSE,
	priority        TEXT NOT NULL DEFAULT 'whenever',
	completion_date TIMESTAMPTZ,
	due_date        TIMESTAMPTZ,
	due_time        TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_tasks_list_id ON tasks(list_id);
CREATE INDEX IF NOT EXISTS idx_tasks_list_completed ON tasks(list_id, is_completed);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS reminders (
	task_id    TEXT PRIMARY KEY REFERENCES tasks(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	fire_at    TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reminders_fire_at ON reminders(fire_at);
`,
	},
}
