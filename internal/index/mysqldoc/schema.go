// Package mysqldoc is the MySQL-backed document half of the index
// gateway: article storage, full-text search, and source aggregation.
// Grounded on the teacher's internal/datasources/mysql package, adapted
// to hand-written SQL over database/sql instead of sqlc-generated
// queries, since the generated queries package is a build-time artifact
// rather than a dependency this module can reasonably vendor by hand.
package mysqldoc

// Schema is the DDL applied by recreateIndex. FULLTEXT covers every
// field the query language can search across.
const Schema = `
CREATE TABLE IF NOT EXISTS articles (
	id            VARCHAR(64) NOT NULL PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT,
	content       LONGTEXT,
	summary       TEXT,
	sentiment     VARCHAR(16),
	keywords      JSON,
	keywords_text TEXT,
	source_name   VARCHAR(255),
	published_at  DATETIME(3) NOT NULL,
	url           TEXT NOT NULL,
	url_to_image  TEXT,
	author        VARCHAR(255),
	vector        LONGBLOB,
	created_at    DATETIME(3) NOT NULL,
	updated_at    DATETIME(3) NOT NULL,
	FULLTEXT KEY ft_search (title, description, content, summary, keywords_text),
	KEY idx_source (source_name),
	KEY idx_sentiment (sentiment),
	KEY idx_published_at (published_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`
