package postgresql

// migrations returns the schema migrations keyed by version. Workflow graphs
// and node execution histories are stored as jsonb documents; columns exist
// only for fields the queries filter or aggregate on.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				organization_id TEXT NOT NULL,
				created_by TEXT NOT NULL DEFAULT '',
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				settings JSONB NOT NULL DEFAULT '{}',
				status TEXT NOT NULL DEFAULT 'draft',
				version INTEGER NOT NULL DEFAULT 1,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_organization
				ON workflows (organization_id) WHERE deleted_at IS NULL;
			CREATE INDEX IF NOT EXISTS idx_workflows_status
				ON workflows (status) WHERE deleted_at IS NULL;
		`,
		2: `
			CREATE TABLE IF NOT EXISTS executions (
				id TEXT PRIMARY KEY,
				workflow_id TEXT NOT NULL,
				organization_id TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				duration_ms BIGINT NOT NULL DEFAULT 0,
				trigger_data JSONB NOT NULL DEFAULT '{}',
				input JSONB NOT NULL DEFAULT '{}',
				output JSONB,
				node_executions JSONB NOT NULL DEFAULT '[]',
				error JSONB,
				metadata JSONB
			);

			CREATE INDEX IF NOT EXISTS idx_executions_workflow
				ON executions (workflow_id, started_at DESC);
			CREATE INDEX IF NOT EXISTS idx_executions_organization
				ON executions (organization_id, started_at DESC);
			CREATE INDEX IF NOT EXISTS idx_executions_status
				ON executions (status);
		`,
	}
}
