package storage

const (
	createExtensionQuery = `CREATE EXTENSION IF NOT EXISTS vector`

	createDocumentsTableQuery = `
		CREATE TABLE IF NOT EXISTS documents (
			id         BIGSERIAL PRIMARY KEY,
			filename   TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			task_id    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	createDocumentsUserIndexQuery = `CREATE INDEX IF NOT EXISTS documents_user_id_idx ON documents (user_id)`
	createDocumentsTaskIndexQuery = `CREATE INDEX IF NOT EXISTS documents_task_id_idx ON documents (task_id)`

	// %d is the embedding width
	createChunksTableQuery = `
		CREATE TABLE IF NOT EXISTS document_chunks (
			id          BIGSERIAL PRIMARY KEY,
			document_id BIGINT NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
			seq         INTEGER NOT NULL,
			content     TEXT NOT NULL,
			embedding   vector(%d) NOT NULL
		)
	`

	createChunksDocumentIndexQuery = `CREATE INDEX IF NOT EXISTS document_chunks_document_id_idx ON document_chunks (document_id, seq)`

	insertDocumentQuery = `
		INSERT INTO documents (filename, user_id, task_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	documentByTaskIDQuery = `
		SELECT id, filename, user_id, task_id, created_at
		FROM documents
		WHERE task_id = $1
		ORDER BY id DESC
		LIMIT 1
	`

	insertChunkQuery = `
		INSERT INTO document_chunks (document_id, seq, content, embedding)
		VALUES ($1, $2, $3, $4)
	`

	searchChunksQuery = `
		SELECT c.id, c.document_id, c.seq, c.content, d.filename, c.embedding <-> $1 AS distance
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.user_id = $2
		ORDER BY c.embedding <-> $1
		LIMIT $3
	`

	listDocumentsQuery = `
		SELECT d.id, d.filename, d.user_id, d.task_id, d.created_at, COUNT(c.id)
		FROM documents d
		LEFT JOIN document_chunks c ON c.document_id = d.id
		WHERE d.user_id = $1
		GROUP BY d.id
		ORDER BY d.id DESC
		LIMIT $2 OFFSET $3
	`

	countDocumentsQuery = `SELECT COUNT(*) FROM documents WHERE user_id = $1`

	countChunksQuery = `SELECT COUNT(*) FROM document_chunks WHERE document_id = $1`
)
