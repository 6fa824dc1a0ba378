package sqlite

const schema = `
-- Tasks table
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL CHECK(length(name) <= 500),
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    dates_stale INTEGER NOT NULL DEFAULT 0 CHECK(dates_stale IN (0, 1)),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    completed_at TEXT,
    CHECK(end_date >= start_date)
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_stale ON tasks(project_id, dates_stale);

-- Task dependencies table
-- One edge per (predecessor, successor) pair; the scheduling layer rejects
-- edges that would close a cycle before they reach this table.
CREATE TABLE IF NOT EXISTS task_dependencies (
    predecessor_id TEXT NOT NULL,
    successor_id TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT 'finish_to_start' CHECK(type IN ('finish_to_start', 'start_to_start', 'finish_to_finish', 'start_to_finish')),
    lag_days INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    created_by TEXT NOT NULL,
    PRIMARY KEY (predecessor_id, successor_id),
    FOREIGN KEY (predecessor_id) REFERENCES tasks(id) ON DELETE CASCADE,
    FOREIGN KEY (successor_id) REFERENCES tasks(id) ON DELETE CASCADE,
    CHECK(predecessor_id <> successor_id)
);

CREATE INDEX IF NOT EXISTS idx_dependencies_predecessor ON task_dependencies(predecessor_id);
CREATE INDEX IF NOT EXISTS idx_dependencies_successor ON task_dependencies(successor_id);

-- Resource allocations table
-- Rows are never deleted; cancelled allocations stay for the audit trail.
CREATE TABLE IF NOT EXISTS resource_allocations (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    task_id TEXT NOT NULL,
    resource_id TEXT NOT NULL,
    resource_type TEXT NOT NULL CHECK(resource_type IN ('worker', 'equipment', 'material')),
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    percent INTEGER NOT NULL CHECK(percent > 0),
    estimated_cost_cents INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'planned' CHECK(status IN ('planned', 'active', 'completed', 'cancelled')),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    created_by TEXT NOT NULL,
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
    CHECK(end_date > start_date)
);

CREATE INDEX IF NOT EXISTS idx_allocations_project ON resource_allocations(project_id);
CREATE INDEX IF NOT EXISTS idx_allocations_task ON resource_allocations(task_id);
CREATE INDEX IF NOT EXISTS idx_allocations_resource ON resource_allocations(resource_id);
CREATE INDEX IF NOT EXISTS idx_allocations_status ON resource_allocations(status);

-- Events table (audit trail)
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    project_id TEXT NOT NULL,
    task_id TEXT,
    actor TEXT NOT NULL,
    severity TEXT NOT NULL CHECK(severity IN ('info', 'warning', 'error')),
    message TEXT NOT NULL,
    data TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_id);
CREATE INDEX IF NOT EXISTS idx_events_task ON events(task_id);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);

-- Active resource load view
-- Aggregate committed load per resource, counting only allocations that can
-- still consume capacity.
CREATE VIEW IF NOT EXISTS active_resource_load AS
SELECT
    project_id,
    resource_id,
    resource_type,
    COUNT(*) AS allocation_count,
    SUM(percent) AS total_percent,
    SUM(estimated_cost_cents) AS total_cost_cents
FROM resource_allocations
WHERE status IN ('planned', 'active')
GROUP BY project_id, resource_id, resource_type;

-- Stale tasks view
CREATE VIEW IF NOT EXISTS stale_tasks AS
SELECT * FROM tasks WHERE dates_stale = 1;
`
