package mysqldoc

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/huandu/go-sqlbuilder"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// Store is the document half of the index gateway, backed by a MySQL
// articles table with a FULLTEXT index covering the searchable fields.
type Store struct {
	db *sql.DB
}

// New wraps an already-opened MySQL connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecreateIndex drops and recreates the articles table, pinning the
// schema used by every other operation. The vector dimension itself is
// not enforced by MySQL; the vector side of the index gateway enforces
// it.
func (s *Store) RecreateIndex(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS articles"); err != nil {
		return fmt.Errorf("dropping articles table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating articles table: %w", err)
	}
	return nil
}

// GetDoc fetches a single article by id. ok is false if absent.
func (s *Store) GetDoc(ctx context.Context, id string) (article domain.Article, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, content, summary, sentiment, keywords,
		       source_name, published_at, url, url_to_image, author, vector,
		       created_at, updated_at
		FROM articles WHERE id = ?`, id)

	a, scanErr := scanArticle(row)
	if scanErr == sql.ErrNoRows {
		return domain.Article{}, false, nil
	}
	if scanErr != nil {
		return domain.Article{}, false, fmt.Errorf("getting article %s: %w", id, scanErr)
	}
	return a, true, nil
}

// Exists reports whether id is present without fetching the full row.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM articles WHERE id = ?", id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking existence of %s: %w", id, err)
	}
	return true, nil
}

// PutDoc upserts article, idempotent on id.
func (s *Store) PutDoc(ctx context.Context, a domain.Article) error {
	keywordsJSON, err := json.Marshal(a.Keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords for %s: %w", a.ID, err)
	}
	keywordsText := strings.Join(a.Keywords, " ")

	var vectorBytes []byte
	if len(a.Vector) > 0 {
		vectorBytes = float32SliceToBytes(a.Vector)
	}

	now := a.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles
			(id, title, description, content, summary, sentiment, keywords, keywords_text,
			 source_name, published_at, url, url_to_image, author, vector,
			 created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			title=VALUES(title), description=VALUES(description),
			content=VALUES(content), summary=VALUES(summary),
			sentiment=VALUES(sentiment), keywords=VALUES(keywords), keywords_text=VALUES(keywords_text),
			source_name=VALUES(source_name), published_at=VALUES(published_at),
			url=VALUES(url), url_to_image=VALUES(url_to_image),
			author=VALUES(author), vector=VALUES(vector), updated_at=VALUES(updated_at)`,
		a.ID, a.Title, a.Description, a.Content, a.Summary, string(a.Sentiment), keywordsJSON, keywordsText,
		a.Source.Name, a.PublishedAt, a.URL, a.URLToImage, a.Author, vectorBytes,
		a.CreatedAt, now,
	)
	if err != nil {
		return fmt.Errorf("upserting article %s: %w", a.ID, err)
	}
	return nil
}

// TextSearch runs a query-language search across title/description/
// content/summary/keywords, returning the matching page and the total
// match count.
func (s *Store) TextSearch(ctx context.Context, query string, opts domain.TextSearchOptions) ([]domain.Article, int, error) {
	parsed := parseQuery(query)
	boolean := buildBooleanQuery(parsed)

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "title", "description", "content", "summary", "sentiment", "keywords",
		"source_name", "published_at", "url", "url_to_image", "author", "vector",
		"created_at", "updated_at")
	sb.From("articles")

	var conds []string
	if boolean != "" {
		conds = append(conds, fmt.Sprintf(
			"MATCH(title,description,content,summary,keywords_text) AGAINST (%s IN BOOLEAN MODE)",
			sb.Args.Add(boolean)))
	}
	for field, value := range parsed.tags {
		col := tagColumn(field)
		if col == "" {
			continue
		}
		conds = append(conds, sb.Equal(col, value))
	}
	if len(conds) > 0 {
		sb.Where(conds...)
	}

	switch opts.SortBy {
	case "publishedAt":
		sb.OrderBy("published_at").Desc()
	default:
		if boolean != "" {
			sb.OrderBy(fmt.Sprintf(
				"MATCH(title,description,content,summary,keywords_text) AGAINST (%s IN BOOLEAN MODE)",
				sb.Args.Add(boolean))).Desc()
		} else {
			sb.OrderBy("published_at").Desc()
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	sb.Limit(limit)
	sb.Offset(opts.Offset)

	sqlStr, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("running text search: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		a, scanErr := scanArticleRows(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("scanning text search row: %w", scanErr)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating text search rows: %w", err)
	}

	total, err := s.countMatching(ctx, boolean, parsed.tags)
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (s *Store) countMatching(ctx context.Context, boolean string, tags map[string]string) (int, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("articles")

	var conds []string
	if boolean != "" {
		conds = append(conds, fmt.Sprintf(
			"MATCH(title,description,content,summary,keywords_text) AGAINST (%s IN BOOLEAN MODE)",
			sb.Args.Add(boolean)))
	}
	for field, value := range tags {
		col := tagColumn(field)
		if col == "" {
			continue
		}
		conds = append(conds, sb.Equal(col, value))
	}
	if len(conds) > 0 {
		sb.Where(conds...)
	}

	sqlStr, args := sb.Build()
	var count int
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting text search matches: %w", err)
	}
	return count, nil
}

// Aggregate groups every article by field and counts them — the
// primitive behind listSources().
func (s *Store) Aggregate(ctx context.Context, field string) (map[string]int64, error) {
	col := tagColumn(field)
	if col == "" {
		return nil, fmt.Errorf("unsupported aggregate field %q", field)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM articles WHERE %s IS NOT NULL GROUP BY %s", col, col, col))
	if err != nil {
		return nil, fmt.Errorf("aggregating by %s: %w", field, err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scanning aggregate row: %w", err)
		}
		out[key] = count
	}
	return out, rows.Err()
}

func tagColumn(field string) string {
	switch field {
	case "source":
		return "source_name"
	case "sentiment":
		return "sentiment"
	default:
		return ""
	}
}

func buildBooleanQuery(p parsedQuery) string {
	var parts []string
	for _, group := range p.orGroups {
		if len(group) == 1 {
			parts = append(parts, "+"+group[0])
		} else {
			parts = append(parts, "+("+strings.Join(group, " ")+")")
		}
	}
	for _, neg := range p.negations {
		parts = append(parts, "-"+neg)
	}
	return strings.Join(parts, " ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	return scanArticleRows(row)
}

func scanArticleRows(row rowScanner) (domain.Article, error) {
	var a domain.Article
	var description, content, summary, sentiment sql.NullString
	var urlToImage, author sql.NullString
	var keywordsJSON, vectorBytes []byte

	err := row.Scan(
		&a.ID, &a.Title, &description, &content, &summary, &sentiment, &keywordsJSON,
		&a.Source.Name, &a.PublishedAt, &a.URL, &urlToImage, &author, &vectorBytes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Article{}, err
	}

	a.Description = description.String
	a.Content = content.String
	a.Summary = summary.String
	a.Sentiment = domain.Sentiment(sentiment.String)
	a.URLToImage = urlToImage.String
	a.Author = author.String

	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &a.Keywords); err != nil {
			return domain.Article{}, fmt.Errorf("decoding keywords: %w", err)
		}
	}
	if len(vectorBytes) > 0 {
		vec, err := bytesToFloat32Slice(vectorBytes)
		if err != nil {
			return domain.Article{}, fmt.Errorf("decoding vector: %w", err)
		}
		a.Vector = vec
	}

	return a, nil
}
