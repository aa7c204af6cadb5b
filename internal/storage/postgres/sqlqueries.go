package postgres

const (
	MigrationQuery = `
	CREATE TABLE IF NOT EXISTS audit_log (
		id BIGSERIAL PRIMARY KEY,
		resource TEXT NOT NULL,
		record_id INT NOT NULL,
		action TEXT NOT NULL,
		from_status TEXT NOT NULL DEFAULT '',
		to_status TEXT NOT NULL DEFAULT '',
		remarks TEXT NOT NULL DEFAULT '',
		actor TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_audit_log_record ON audit_log(resource, record_id);
	`

	InsertAuditQuery = `
	INSERT INTO audit_log (resource, record_id, action, from_status, to_status, remarks, actor, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

	ListAuditQuery = `
	SELECT id, resource, record_id, action, from_status, to_status, remarks, actor, created_at
	FROM audit_log
	WHERE ($1 = '' OR resource = $1) AND ($2 = 0 OR record_id = $2)
	ORDER BY created_at DESC, id DESC
	LIMIT $3`
)
