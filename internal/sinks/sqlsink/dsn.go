package sqlsink

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/laurel-etl/laurel/pkg/constants"
)

// Conn holds the connection settings shared by the network SQL drivers.
type Conn struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// MySQLDSN builds a go-sql-driver DSN.
func MySQLDSN(c Conn) string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if c.SSLMode == "require" {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
}

// PostgresDSN builds a lib/pq key/value connection string.
func PostgresDSN(c Conn) string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	parts := []string{
		"host=" + pqQuote(c.Host),
		"port=" + strconv.Itoa(c.Port),
		"user=" + pqQuote(c.User),
		"dbname=" + pqQuote(c.Database),
		"sslmode=" + pqQuote(sslMode),
	}
	if c.Password != "" {
		parts = append(parts, "password="+pqQuote(c.Password))
	}
	return strings.Join(parts, " ")
}

// SQLiteDSN builds a modernc.org/sqlite DSN for a database file.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, constants.SQLiteBusyTimeout)
}

func pqQuote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
