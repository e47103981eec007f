package db

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type uniqueModel struct {
	ID     int
	Serial string `gorm:"uniqueIndex"`
}

func TestIsUniqueViolationPostgresError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_shipping_details_order_id"}
	wrapped := fmt.Errorf("create shipping: %w", pgErr)

	if !IsUniqueViolation(wrapped, "") {
		t.Fatalf("expected SQLSTATE 23505 to be a unique violation")
	}
	if !IsUniqueViolation(wrapped, "idx_shipping_details_order_id") {
		t.Fatalf("expected constraint name match")
	}
	if IsUniqueViolation(wrapped, "idx_other") {
		t.Fatalf("did not expect a different constraint to match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatalf("foreign key violation is not a unique violation")
	}
}

func TestIsUniqueViolationTranslatedError(t *testing.T) {
	if !IsUniqueViolation(gorm.ErrDuplicatedKey, "") {
		t.Fatalf("expected translated duplicate-key error to match")
	}
	if IsUniqueViolation(gorm.ErrRecordNotFound, "") {
		t.Fatalf("record-not-found should not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatalf("nil error should not match")
	}
}

func TestIsUniqueViolationFromSqliteInsert(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:uniqueviolation?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&uniqueModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	if err := conn.Create(&uniqueModel{Serial: "SN-1"}).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	dupErr := conn.Create(&uniqueModel{Serial: "SN-1"}).Error
	if dupErr == nil {
		t.Fatalf("expected duplicate insert to fail")
	}
	if !IsUniqueViolation(dupErr, "") {
		t.Fatalf("expected duplicate insert error to be a unique violation, got %v", dupErr)
	}
}
