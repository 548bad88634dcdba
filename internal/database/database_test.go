package database

import (
	"path/filepath"
	"testing"
)

func TestIsMySQLDSN(t *testing.T) {
	cases := []struct {
		source string
		want   bool
	}{
		{"user:pass@tcp(localhost:3306)/sku_pulse", true},
		{"user:pass@unix(/var/run/mysqld/mysqld.sock)/sku_pulse", true},
		{"sku_metrics.db", false},
		{"/var/lib/sku-pulse/metrics.db", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsMySQLDSN(tc.source); got != tc.want {
			t.Errorf("IsMySQLDSN(%q) = %v, want %v", tc.source, got, tc.want)
		}
	}
}

func TestInitializeSqliteFile(t *testing.T) {
	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		t.Errorf("Expected live connection, got %v", err)
	}
}
