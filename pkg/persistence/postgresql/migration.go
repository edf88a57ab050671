package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create workflows table; the graph is stored as authored
			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'live', 'paused')),
				scope_id VARCHAR(255) NOT NULL,
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflows_scope_status ON workflows(scope_id, status);
			CREATE INDEX idx_workflows_created_at ON workflows(created_at);
			CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);
		`,
		2: `
			-- Execution log: one run per trigger firing, append-only steps
			CREATE TABLE execution_runs (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL,
				trigger_type VARCHAR(50) NOT NULL,
				trigger_payload JSONB NOT NULL DEFAULT '{}',
				status VARCHAR(50) NOT NULL CHECK (status IN ('running', 'success', 'error')),
				error_message TEXT,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				finished_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_execution_runs_workflow_id ON execution_runs(workflow_id);
			CREATE INDEX idx_execution_runs_unfinished ON execution_runs(started_at) WHERE finished_at IS NULL;

			CREATE TABLE execution_steps (
				id VARCHAR(255) PRIMARY KEY,
				execution_run_id VARCHAR(255) NOT NULL REFERENCES execution_runs(id) ON DELETE CASCADE,
				sequence INT NOT NULL,
				node_id VARCHAR(255) NOT NULL,
				node_label VARCHAR(255) NOT NULL DEFAULT '',
				action_kind VARCHAR(50) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('success', 'error', 'skipped')),
				error_message TEXT,
				output JSONB NOT NULL DEFAULT '{}',
				finished_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_execution_steps_run ON execution_steps(execution_run_id, sequence);
		`,
	}
}
