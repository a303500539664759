package mysqldoc

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

const driverParamStr = "?parseTime=true"

// Connect opens and pings a MySQL connection pool at uri, grounded on
// the teacher's own mysql.Connect. maxOpenConns/maxIdleConns are caller
// supplied so pool sizing lives with the rest of the app's environment
// configuration rather than as a constant buried in this package.
func Connect(ctx context.Context, uri string, maxOpenConns, maxIdleConns int) (*sql.DB, error) {
	db, err := sql.Open("mysql", uri+driverParamStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL DB: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("checking MySQL DB connection: %w", err)
	}

	return db, nil
}
